/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package result cleans up free-form model output before it is parsed.

Models often wrap answers in markdown fences even when told not to:

	```python
	ai_get_file_list(path='un_organized')
	```

StripCodeFence removes such a wrapper (and its language tag) when the whole
response is fenced. ExtractJSON pulls the body out of a ```json block, and
Extract unmarshals it into a typed value:

	subtasks, err := result.Extract[[]string](response)

Format renders a function's return value for reports: scalars via fmt and
composite values as JSON.
*/
package result
