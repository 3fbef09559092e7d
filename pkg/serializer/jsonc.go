// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package serializer

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/tailscale/hujson"
)

// ErrMalformedJSONC is wrapped by errors for input that is not valid JSON
// even after comments and trailing commas are allowed.
var ErrMalformedJSONC = errors.New("malformed JSONC")

// StandardizeJSONC turns JSON with comments into plain JSON. Comments and
// trailing commas are replaced by spaces, so decoder error offsets still
// point at the original file. src is not modified.
func StandardizeJSONC(src []byte) ([]byte, error) {
	out, err := hujson.Standardize(bytes.Clone(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedJSONC, err)
	}
	return out, nil
}
