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

package runner_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pegasus-kv/pegasus-check/internal/logger"
	"github.com/pegasus-kv/pegasus-check/pkg/runner"
	"github.com/pegasus-kv/pegasus-check/pkg/testutil"
)

var _ = Describe("Local", func() {
	var (
		log   *logger.FunLogger
		out   *bytes.Buffer
		shell *testutil.FakeShell
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		log = logger.NewLogger()
		log.Out = out
		shell = testutil.NewFakeShell(GinkgoT())
	})

	It("returns the combined output of the admin shell", func() {
		raw := testutil.NodesDetailOutput("onebox", 10, 10, 10)
		shell.Respond("onebox", "nodes -d", raw, 0)

		r := runner.NewLocal(log, shell.Dir, time.Minute)
		result, err := r.Run(context.Background(), "onebox", "nodes -d")

		Expect(err).NotTo(HaveOccurred())
		Expect(result.ExitStatus).To(Equal(0))
		Expect(result.Output).To(Equal(raw))
	})

	It("expands a home relative shell path", func() {
		raw := testutil.LsDetailOutput("onebox", 0, 0)
		shell.Respond("onebox", "ls -d", raw, 0)
		if old, ok := os.LookupEnv("HOME"); ok {
			DeferCleanup(os.Setenv, "HOME", old)
		}
		Expect(os.Setenv("HOME", filepath.Dir(shell.Dir))).To(Succeed())

		r := runner.NewLocal(log, "~/"+filepath.Base(shell.Dir), time.Minute)
		result, err := r.Run(context.Background(), "onebox", "ls -d")

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Output).To(Equal(raw))
	})

	It("logs the command line at verbose level", func() {
		log.SetVerbosity(logger.VerbosityVerbose)
		shell.Healthy("onebox")

		r := runner.NewLocal(log, shell.Dir, time.Minute)
		_, err := r.Run(context.Background(), "onebox", "ls -d")

		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(ContainSubstring("[DEBUG] executing command"))
		Expect(out.String()).To(ContainSubstring("./run.sh shell -n 'onebox'"))
	})

	It("reports a non-zero exit status with the output", func() {
		shell.Respond("onebox", "ls -d", "ERROR: connect meta server failed\n", 3)

		r := runner.NewLocal(log, shell.Dir, time.Minute)
		result, err := r.Run(context.Background(), "onebox", "ls -d")

		Expect(err).To(HaveOccurred())
		var execErr *runner.ExecutionError
		Expect(errors.As(err, &execErr)).To(BeTrue())
		Expect(execErr.ExitStatus).To(Equal(3))
		Expect(execErr.Cluster).To(Equal("onebox"))
		Expect(execErr.Timeout()).To(BeFalse())
		Expect(execErr.Output).To(ContainSubstring("connect meta server failed"))
		Expect(result.ExitStatus).To(Equal(3))
	})

	It("fails when no shell is installed at the path", func() {
		r := runner.NewLocal(log, GinkgoT().TempDir(), time.Minute)
		_, err := r.Run(context.Background(), "onebox", "ls -d")

		var execErr *runner.ExecutionError
		Expect(errors.As(err, &execErr)).To(BeTrue())
		Expect(execErr.ExitStatus).NotTo(Equal(0))
	})

	It("aborts an invocation that exceeds its timeout", func() {
		shell.Healthy("slow").Delay("slow", "nodes -d", 5)

		r := runner.NewLocal(log, shell.Dir, 200*time.Millisecond)
		start := time.Now()
		_, err := r.Run(context.Background(), "slow", "nodes -d")

		var execErr *runner.ExecutionError
		Expect(errors.As(err, &execErr)).To(BeTrue())
		Expect(execErr.Timeout()).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("timed out"))
		Expect(time.Since(start)).To(BeNumerically("<", 4*time.Second))
	})

	It("stops when the caller cancels", func() {
		shell.Healthy("slow").Delay("slow", "ls -d", 5)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(100 * time.Millisecond)
			cancel()
		}()

		r := runner.NewLocal(log, shell.Dir, time.Minute)
		_, err := r.Run(ctx, "slow", "ls -d")

		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
	})
})
