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

package diagnostic

import "fmt"

// ParseError reports admin shell output that ran successfully but does not
// have the expected shape.
type ParseError struct {
	// Field is the label or column that could not be read.
	Field string
	// Line is the offending line, empty when the field was never found.
	Line   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line == "" {
		return fmt.Sprintf("failed to parse %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("failed to parse %s: %s (line %q)", e.Field, e.Reason, e.Line)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
