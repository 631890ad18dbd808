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

package health_test

import (
	"bytes"
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pegasus-kv/pegasus-check/internal/logger"
	"github.com/pegasus-kv/pegasus-check/pkg/diagnostic"
	"github.com/pegasus-kv/pegasus-check/pkg/health"
	"github.com/pegasus-kv/pegasus-check/pkg/runner"
	"github.com/pegasus-kv/pegasus-check/pkg/testutil"
)

// scriptedRunner answers commands from a map and records the call order.
type scriptedRunner struct {
	mu      sync.Mutex
	answers map[string]string
	errs    map[string]error
	calls   []string
}

func (s *scriptedRunner) Run(_ context.Context, _ string, command string) (runner.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, command)
	if err, ok := s.errs[command]; ok {
		return runner.Result{}, err
	}
	return runner.Result{Output: s.answers[command]}, nil
}

var _ = Describe("Evaluator", func() {
	var (
		log *logger.FunLogger
		out *bytes.Buffer
		r   *scriptedRunner
	)

	evaluate := func() ([]health.Finding, error) {
		e := health.NewEvaluator(log, r, diagnostic.DefaultMarkers())
		return e.Evaluate(context.Background(), "c3srv-a")
	}

	BeforeEach(func() {
		out = &bytes.Buffer{}
		log = logger.NewLogger()
		log.Out = out
		r = &scriptedRunner{
			answers: map[string]string{
				health.CommandListNodes: testutil.NodesDetailOutput("c3srv-a", 10, 10, 10),
				health.CommandListApps:  testutil.LsDetailOutput("c3srv-a", 0, 0),
			},
			errs: map[string]error{},
		}
	})

	It("reports nothing for a healthy cluster", func() {
		findings, err := evaluate()
		Expect(err).NotTo(HaveOccurred())
		Expect(findings).To(BeEmpty())
	})

	It("checks balance before partitions", func() {
		_, err := evaluate()
		Expect(err).NotTo(HaveOccurred())
		Expect(r.calls).To(Equal([]string{health.CommandListNodes, health.CommandListApps}))
	})

	It("reports imbalance with the node table", func() {
		r.answers[health.CommandListNodes] = testutil.NodesDetailOutput("c3srv-a", 4, 10, 10)

		findings, err := evaluate()

		Expect(err).NotTo(HaveOccurred())
		Expect(findings).To(HaveLen(1))
		Expect(findings[0].Kind).To(Equal(health.KindImbalanced))
		Expect(findings[0].Detail).To(ContainSubstring("10.0.0.1:34801"))
		Expect(findings[0].Detail).NotTo(ContainSubstring("dsn exit with code"))
	})

	It("reports imbalance and write unhealthiness together", func() {
		r.answers[health.CommandListNodes] = testutil.NodesDetailOutput("c3srv-a", 4, 10, 10)
		r.answers[health.CommandListApps] = testutil.LsDetailOutput("c3srv-a", 2, 3)

		findings, err := evaluate()

		Expect(err).NotTo(HaveOccurred())
		Expect(findings).To(HaveLen(2))
		Expect(findings[0].Kind).To(Equal(health.KindImbalanced))
		Expect(findings[1].Kind).To(Equal(health.KindWriteUnhealthy))
		Expect(findings[1].Count).To(Equal(2))
	})

	It("reports read unhealthiness", func() {
		r.answers[health.CommandListApps] = testutil.LsDetailOutput("c3srv-a", 0, 5)

		findings, err := evaluate()

		Expect(err).NotTo(HaveOccurred())
		Expect(findings).To(HaveLen(1))
		Expect(findings[0].Message).To(Equal("cluster is read unhealthy, read_unhealthy_app_count = 5"))
	})

	It("stops at a failed node listing", func() {
		r.errs[health.CommandListNodes] = &runner.ExecutionError{Cluster: "c3srv-a", Command: "nodes -d", ExitStatus: 1}

		findings, err := evaluate()

		Expect(findings).To(BeEmpty())
		var clusterErr *health.ClusterError
		Expect(errors.As(err, &clusterErr)).To(BeTrue())
		Expect(clusterErr.Cluster).To(Equal("c3srv-a"))
		Expect(clusterErr.Stage).To(Equal(health.StageNodes))
		var execErr *runner.ExecutionError
		Expect(errors.As(err, &execErr)).To(BeTrue())
		Expect(r.calls).To(Equal([]string{health.CommandListNodes}))
	})

	It("keeps the balance finding when partitions fail to parse", func() {
		r.answers[health.CommandListNodes] = testutil.NodesDetailOutput("c3srv-a", 4, 10, 10)
		r.answers[health.CommandListApps] = "The cluster meta list is:\ngarbage\ndsn exit with code 0\n"

		findings, err := evaluate()

		Expect(findings).To(HaveLen(1))
		var clusterErr *health.ClusterError
		Expect(errors.As(err, &clusterErr)).To(BeTrue())
		Expect(clusterErr.Stage).To(Equal(health.StagePartitions))
		Expect(clusterErr.Payload).To(ContainSubstring("garbage"))
		var parseErr *diagnostic.ParseError
		Expect(errors.As(err, &parseErr)).To(BeTrue())
	})

	It("fails with insufficient data when no replica server is listed", func() {
		r.answers[health.CommandListNodes] = testutil.NodesDetailOutput("c3srv-a")

		_, err := evaluate()

		var insufficient *health.InsufficientDataError
		Expect(errors.As(err, &insufficient)).To(BeTrue())
		Expect(insufficient.Cluster).To(Equal("c3srv-a"))
	})

	It("traces the raw output in debug mode", func() {
		log.SetVerbosity(logger.VerbosityDebug)

		_, err := evaluate()

		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(ContainSubstring("[TRACE] raw output of \"nodes -d\" on cluster c3srv-a"))
		Expect(out.String()).To(ContainSubstring("[DEBUG] cluster c3srv-a: found 3 replica servers"))
	})
})
