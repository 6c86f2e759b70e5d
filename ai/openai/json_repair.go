// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import "strings"

// repairJSON fixes the key-quoting mistake models make most often: an object
// key missing its opening quote, as in `{decision": "tools"}`. The input is
// rewritten so such keys become properly quoted; well-formed input passes
// through unchanged.
func repairJSON(s string) string {
	var out strings.Builder
	out.Grow(len(s) + 16)

	i := 0
	for i < len(s) {
		c := s[i]
		out.WriteByte(c)
		i++

		if c != '{' && c != ',' {
			continue
		}

		// Keys can only start after { or , (modulo whitespace).
		for i < len(s) && isSpace(s[i]) {
			out.WriteByte(s[i])
			i++
		}
		if i >= len(s) || s[i] == '"' || !isKeyByte(s[i]) {
			continue
		}

		// Bare word: scan it, and if it ends with ": the opening quote
		// was dropped. Otherwise emit it untouched.
		start := i
		for i < len(s) && isKeyByte(s[i]) {
			i++
		}
		if i+1 < len(s) && s[i] == '"' && s[i+1] == ':' {
			out.WriteByte('"')
		}
		out.WriteString(s[start:i])
	}

	return out.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isKeyByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}
