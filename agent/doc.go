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


// Package agent implements the conversational question-answering agent on
// top of the retrieval pipeline.
//
// Each turn runs a decision step that asks the model which tools the query
// needs: searching the ingested corpus, searching the web, or querying a
// structured database. Selected tools run in parallel on a bounded worker
// pool with per-tool timeouts, and their outputs are synthesized into a
// single reply. When the corpus search tool is selected, a date extraction
// step converts time periods mentioned in the query into a date range for
// temporal filtering.
//
// The agent degrades rather than fails: an unusable decision falls back to
// document search, a failing tool contributes an error string without
// aborting its siblings, and a failed synthesis pass returns the raw tool
// results. Ask only errors on contract violations such as an empty query.
package agent
