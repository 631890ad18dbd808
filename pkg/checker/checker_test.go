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

package checker_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pegasus-kv/pegasus-check/internal/logger"
	"github.com/pegasus-kv/pegasus-check/pkg/checker"
	"github.com/pegasus-kv/pegasus-check/pkg/health"
	"github.com/pegasus-kv/pegasus-check/pkg/registry"
)

// fakeEvaluator returns canned results per cluster and tracks how many
// evaluations overlap.
type fakeEvaluator struct {
	findings map[string][]health.Finding
	errs     map[string]error
	delay    time.Duration

	mu      sync.Mutex
	order   []string
	running atomic.Int32
	peak    atomic.Int32
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, cluster string) ([]health.Finding, error) {
	n := f.running.Add(1)
	defer f.running.Add(-1)
	for {
		peak := f.peak.Load()
		if n <= peak || f.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	f.mu.Lock()
	f.order = append(f.order, cluster)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.findings[cluster], f.errs[cluster]
}

func clustersNamed(names ...string) []registry.Cluster {
	clusters := make([]registry.Cluster, 0, len(names))
	for _, n := range names {
		clusters = append(clusters, registry.Cluster{Name: n})
	}
	return clusters
}

func reportNames(reports []checker.ClusterReport) []string {
	var names []string
	for _, r := range reports {
		names = append(names, r.Cluster)
	}
	return names
}

var _ = Describe("Checker", func() {
	var (
		log  *logger.FunLogger
		eval *fakeEvaluator
	)

	imbalanced := health.Finding{Kind: health.KindImbalanced, Message: "cluster is imbalanced"}

	BeforeEach(func() {
		log = logger.NewLogger()
		log.Out = io.Discard
		eval = &fakeEvaluator{
			findings: map[string][]health.Finding{},
			errs:     map[string]error{},
		}
	})

	It("evaluates clusters sequentially by default", func() {
		c := &checker.Checker{Log: log, Evaluator: eval}

		report := c.Run(context.Background(), clustersNamed("a", "b", "c"))

		Expect(reportNames(report.Clusters)).To(Equal([]string{"a", "b", "c"}))
		Expect(eval.order).To(Equal([]string{"a", "b", "c"}))
		Expect(eval.peak.Load()).To(Equal(int32(1)))
		Expect(report.Healthy()).To(BeTrue())
		Expect(report.Failed()).To(BeEmpty())
	})

	It("keeps going after a cluster fails", func() {
		eval.errs["b"] = errors.New("exit status 1")
		eval.findings["c"] = []health.Finding{imbalanced}
		c := &checker.Checker{Log: log, Evaluator: eval}

		report := c.Run(context.Background(), clustersNamed("a", "b", "c"))

		Expect(reportNames(report.Clusters)).To(Equal([]string{"a", "b", "c"}))
		Expect(report.Skipped).To(BeEmpty())
		failed := report.Failed()
		Expect(failed).To(HaveLen(1))
		Expect(failed[0].Cluster).To(Equal("b"))
		Expect(failed[0].Error).To(Equal("exit status 1"))
		Expect(report.Clusters[2].Findings).To(ConsistOf(imbalanced))
		Expect(report.Healthy()).To(BeFalse())
	})

	It("stops after the first failure in fail-fast mode", func() {
		eval.errs["b"] = errors.New("exit status 1")
		c := &checker.Checker{Log: log, Evaluator: eval, FailFast: true}

		report := c.Run(context.Background(), clustersNamed("a", "b", "c", "d"))

		Expect(reportNames(report.Clusters)).To(Equal([]string{"a", "b"}))
		Expect(report.Skipped).To(Equal([]string{"c", "d"}))
		Expect(eval.order).To(Equal([]string{"a", "b"}))
	})

	It("bounds parallel evaluations and preserves order", func() {
		eval.delay = 50 * time.Millisecond
		names := []string{"a", "b", "c", "d", "e", "f"}
		c := &checker.Checker{Log: log, Evaluator: eval, Concurrency: 3}

		start := time.Now()
		report := c.Run(context.Background(), clustersNamed(names...))

		Expect(reportNames(report.Clusters)).To(Equal(names))
		Expect(eval.peak.Load()).To(BeNumerically("<=", 3))
		Expect(eval.peak.Load()).To(BeNumerically(">", 1))
		Expect(time.Since(start)).To(BeNumerically("<", 6*eval.delay))
	})

	It("reports a healthy fleet for an empty cluster list", func() {
		c := &checker.Checker{Log: log, Evaluator: eval}

		report := c.Run(context.Background(), nil)

		Expect(report.Clusters).To(BeEmpty())
		Expect(report.Healthy()).To(BeTrue())
	})

	It("skips clusters once the context is done", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		c := &checker.Checker{Log: log, Evaluator: eval}

		report := c.Run(ctx, clustersNamed("a", "b"))

		Expect(report.Clusters).To(BeEmpty())
		Expect(report.Skipped).To(Equal([]string{"a", "b"}))
		Expect(report.Healthy()).To(BeFalse())
	})
})
