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


package agent

import "errors"

var (
	// ErrCompleterRequired indicates a nil completer was provided.
	ErrCompleterRequired = errors.New("completer is required")

	// ErrAnswererRequired indicates a nil answerer was provided.
	ErrAnswererRequired = errors.New("answerer is required")

	// ErrNoToolsRegistered indicates the agent has no tools to dispatch to.
	ErrNoToolsRegistered = errors.New("no tools registered")

	// ErrUnknownTool indicates a decision referenced a tool that is not registered.
	ErrUnknownTool = errors.New("unknown tool")
)
