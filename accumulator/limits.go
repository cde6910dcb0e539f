// Copyright 2025 StatForge, Inc
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

package accumulator

import "math"

// maxValue returns the largest representable value of V. Used as the
// documented empty-state sentinel for Min.
func maxValue[V Number]() V {
	var zero V
	switch any(zero).(type) {
	case float64:
		return any(math.MaxFloat64).(V)
	case float32:
		return any(float32(math.MaxFloat32)).(V)
	case int:
		return any(int(math.MaxInt)).(V)
	case int8:
		return any(int8(math.MaxInt8)).(V)
	case int16:
		return any(int16(math.MaxInt16)).(V)
	case int32:
		return any(int32(math.MaxInt32)).(V)
	case int64:
		return any(int64(math.MaxInt64)).(V)
	case uint:
		return any(uint(math.MaxUint)).(V)
	case uint8:
		return any(uint8(math.MaxUint8)).(V)
	case uint16:
		return any(uint16(math.MaxUint16)).(V)
	case uint32:
		return any(uint32(math.MaxUint32)).(V)
	case uint64:
		return any(uint64(math.MaxUint64)).(V)
	case uintptr:
		return any(^uintptr(0)).(V)
	}
	return zero
}

// minValue returns the most negative representable value of V (the
// smallest value for unsigned types is 0). Used as the empty-state
// sentinel for Max.
func minValue[V Number]() V {
	var zero V
	switch any(zero).(type) {
	case float64:
		return any(-math.MaxFloat64).(V)
	case float32:
		return any(float32(-math.MaxFloat32)).(V)
	case int:
		return any(int(math.MinInt)).(V)
	case int8:
		return any(int8(math.MinInt8)).(V)
	case int16:
		return any(int16(math.MinInt16)).(V)
	case int32:
		return any(int32(math.MinInt32)).(V)
	case int64:
		return any(int64(math.MinInt64)).(V)
	}
	return zero
}
