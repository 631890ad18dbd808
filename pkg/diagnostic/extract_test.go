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

package diagnostic_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pegasus-kv/pegasus-check/pkg/diagnostic"
	"github.com/pegasus-kv/pegasus-check/pkg/testutil"
)

var _ = Describe("Extract", func() {
	var markers diagnostic.Markers

	BeforeEach(func() {
		markers = diagnostic.DefaultMarkers()
	})

	It("should keep only the lines between the markers", func() {
		raw := "banner\nThe cluster meta list is:\nline one\nline two\ndsn exit with code 0\ntrailer\n"
		Expect(diagnostic.Extract(raw, markers)).To(Equal("line one\nline two\n"))
	})

	It("should return an empty payload when the start marker is missing", func() {
		raw := "banner\nline one\ndsn exit with code 0\n"
		Expect(diagnostic.Extract(raw, markers)).To(BeEmpty())
	})

	It("should return everything after the start marker when the end marker is missing", func() {
		raw := "banner\nThe cluster meta list is:\nline one\nline two"
		Expect(diagnostic.Extract(raw, markers)).To(Equal("line one\nline two\n"))
	})

	It("should match the end marker as a line prefix", func() {
		raw := "The cluster meta list is:\nrow\ndsn exit with code 1 (failure)\nrow after\n"
		Expect(diagnostic.Extract(raw, markers)).To(Equal("row\n"))
	})

	It("should handle CRLF line endings", func() {
		raw := "The cluster meta list is:\r\nrow\r\ndsn exit with code 0\r\n"
		Expect(diagnostic.Extract(raw, markers)).To(Equal("row\n"))
	})

	It("should honor custom markers", func() {
		custom := diagnostic.Markers{Start: ">>> begin", End: "<<< end"}
		raw := "noise\n>>> begin\npayload\n<<< end\n"
		Expect(diagnostic.Extract(raw, custom)).To(Equal("payload\n"))
	})

	It("should fall back to the default markers for empty fields", func() {
		raw := "The cluster meta list is:\npayload\n<<< end\ndsn exit with code 0\n"
		Expect(diagnostic.Extract(raw, diagnostic.Markers{End: "<<< end"})).To(Equal("payload\n"))
	})

	It("should return an empty payload for empty input", func() {
		Expect(diagnostic.Extract("", markers)).To(BeEmpty())
	})

	It("should be idempotent on identical input", func() {
		raw := testutil.NodesDetailOutput("onebox", 4, 10, 10)
		first := diagnostic.Extract(raw, markers)
		second := diagnostic.Extract(raw, markers)
		Expect(second).To(Equal(first))
		// the blank line before the trailer is part of the payload
		Expect(first).To(Equal(testutil.NodesDetailPayload(4, 10, 10) + "\n"))

		firstRecords, err := diagnostic.ParseNodeList(first)
		Expect(err).NotTo(HaveOccurred())
		secondRecords, err := diagnostic.ParseNodeList(second)
		Expect(err).NotTo(HaveOccurred())
		Expect(secondRecords).To(Equal(firstRecords))
	})
})
