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

// Package mocks provides mock implementations for external dependencies
// used in testing.
package mocks

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// MockSSMClient is a mock implementation of the SSM client used by the SSM
// runner. Unset funcs return a successful empty invocation.
type MockSSMClient struct {
	SendCommandFunc          func(ctx context.Context, params *ssm.SendCommandInput, optFns ...func(*ssm.Options)) (*ssm.SendCommandOutput, error)
	GetCommandInvocationFunc func(ctx context.Context, params *ssm.GetCommandInvocationInput, optFns ...func(*ssm.Options)) (*ssm.GetCommandInvocationOutput, error)
	CancelCommandFunc        func(ctx context.Context, params *ssm.CancelCommandInput, optFns ...func(*ssm.Options)) (*ssm.CancelCommandOutput, error)

	mu        sync.Mutex
	sent      []*ssm.SendCommandInput
	polls     int
	cancelled []string
}

func (m *MockSSMClient) SendCommand(ctx context.Context, params *ssm.SendCommandInput, optFns ...func(*ssm.Options)) (*ssm.SendCommandOutput, error) {
	m.mu.Lock()
	m.sent = append(m.sent, params)
	m.mu.Unlock()
	if m.SendCommandFunc != nil {
		return m.SendCommandFunc(ctx, params, optFns...)
	}
	return &ssm.SendCommandOutput{
		Command: &types.Command{CommandId: strPtr("cmd-mock-12345")},
	}, nil
}

func (m *MockSSMClient) GetCommandInvocation(ctx context.Context, params *ssm.GetCommandInvocationInput, optFns ...func(*ssm.Options)) (*ssm.GetCommandInvocationOutput, error) {
	m.mu.Lock()
	m.polls++
	m.mu.Unlock()
	if m.GetCommandInvocationFunc != nil {
		return m.GetCommandInvocationFunc(ctx, params, optFns...)
	}
	return &ssm.GetCommandInvocationOutput{
		CommandId: params.CommandId,
		Status:    types.CommandInvocationStatusSuccess,
	}, nil
}

func (m *MockSSMClient) CancelCommand(ctx context.Context, params *ssm.CancelCommandInput, optFns ...func(*ssm.Options)) (*ssm.CancelCommandOutput, error) {
	m.mu.Lock()
	if params.CommandId != nil {
		m.cancelled = append(m.cancelled, *params.CommandId)
	}
	m.mu.Unlock()
	if m.CancelCommandFunc != nil {
		return m.CancelCommandFunc(ctx, params, optFns...)
	}
	return &ssm.CancelCommandOutput{}, nil
}

// Sent returns the inputs of every SendCommand call.
func (m *MockSSMClient) Sent() []*ssm.SendCommandInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*ssm.SendCommandInput(nil), m.sent...)
}

// Polls returns how many times GetCommandInvocation was called.
func (m *MockSSMClient) Polls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.polls
}

// Cancelled returns the ids of cancelled commands.
func (m *MockSSMClient) Cancelled() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.cancelled...)
}

func strPtr(s string) *string {
	return &s
}
