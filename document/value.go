// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package document

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// FromValue builds a document tree from generic Go values: maps with string
// keys, slices and scalars. Map keys are sorted since Go maps carry no order.
// Every node is stamped with pos.
func FromValue(v any, pos Position) (*Node, error) {
	return fromValue(v, pos, 0)
}

func fromValue(v any, pos Position, depth int) (*Node, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%s: value nested deeper than %d levels", pos, maxDepth)
	}
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMapping(pos)
		for _, k := range keys {
			child, err := fromValue(val[k], pos, depth+1)
			if err != nil {
				return nil, err
			}
			if err := m.Set(k, child); err != nil {
				return nil, err
			}
		}
		return m, nil
	case []map[string]any:
		seq := NewSequence(pos)
		for _, item := range val {
			child, err := fromValue(item, pos, depth+1)
			if err != nil {
				return nil, err
			}
			seq.Append(child)
		}
		return seq, nil
	case []any:
		seq := NewSequence(pos)
		for _, item := range val {
			child, err := fromValue(item, pos, depth+1)
			if err != nil {
				return nil, err
			}
			seq.Append(child)
		}
		return seq, nil
	}
	return NewScalar(pos, normalize(v)), nil
}

// normalize folds the numeric types produced by the YAML and TOML decoders
// into int64, uint64 and float64.
func normalize(v any) any {
	switch val := v.(type) {
	case nil, string, bool, int64, float64:
		return v
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint:
		return normalizeUint(uint64(val))
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return normalizeUint(val)
	case float32:
		return float64(val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v)
}

func normalizeUint(u uint64) any {
	if u <= math.MaxInt64 {
		return int64(u)
	}
	return u
}
