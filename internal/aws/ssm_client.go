/*
 * Copyright (c) 2026, NVIDIA CORPORATION.  All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package aws provides internal AWS utilities and interfaces for
// pegasus-check. This package is internal and not intended for external
// consumption.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// SSMClient defines the Systems Manager operations used to run the admin
// shell on a managed instance. It lets tests substitute a mock for the real
// client.
type SSMClient interface {
	SendCommand(ctx context.Context, params *ssm.SendCommandInput,
		optFns ...func(*ssm.Options)) (*ssm.SendCommandOutput, error)
	GetCommandInvocation(ctx context.Context, params *ssm.GetCommandInvocationInput,
		optFns ...func(*ssm.Options)) (*ssm.GetCommandInvocationOutput, error)
	CancelCommand(ctx context.Context, params *ssm.CancelCommandInput,
		optFns ...func(*ssm.Options)) (*ssm.CancelCommandOutput, error)
}

// Ensure *ssm.Client implements SSMClient at compile time.
var _ SSMClient = (*ssm.Client)(nil)

// NewSSMClient builds an SSM client from the default credential chain. An
// empty region falls back to the one configured in the environment.
func NewSSMClient(ctx context.Context, region string) (*ssm.Client, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}
