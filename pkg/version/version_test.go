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

package version

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr error
	}{
		{in: "1.16.100", want: Version{1, 16, 100}},
		{in: "v1.20", want: Version{1, 20}},
		{in: " 1 ", want: Version{1}},
		{in: "", wantErr: ErrEmptyVersion},
		{in: "1.x", wantErr: ErrNonNumeric},
		{in: "1.-2", wantErr: ErrNegativeComponent},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.16.100", "1.16.100", 0},
		{"1.16", "1.16.0", 0},
		{"1.16.0", "1.16.100", -1},
		{"1.20.80", "1.16.100", 1},
		{"1.10", "1.9.999", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParse(tt.a).Compare(MustParse(tt.b)))
		})
	}
}

func TestAtLeast(t *testing.T) {
	assert.True(t, AtLeast("1.16.100", ItemIconComponent))
	assert.True(t, AtLeast("1.21.0", ItemIconComponent))
	assert.False(t, AtLeast("1.10", ItemIconComponent))
	assert.False(t, AtLeast("garbage", ItemIconComponent))
}

func TestString(t *testing.T) {
	assert.Equal(t, "1.16.100", ItemIconComponent.String())
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("") })
}

func FuzzParse(f *testing.F) {
	for _, s := range []string{"1.16.100", "v1", "", "1..2", "1.-1"} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, s string) {
		v, err := Parse(s)
		if err != nil {
			return
		}
		again, err := Parse(v.String())
		if err != nil {
			t.Fatalf("reparse %q: %v", v.String(), err)
		}
		if v.Compare(again) != 0 {
			t.Fatalf("round trip changed %q to %q", v, again)
		}
	})
}
