// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package rdl

import (
	"errors"
	"fmt"
)

// ErrUnknownKeyword is returned when an access or side-effect keyword is not
// part of the fixed vocabulary.
var ErrUnknownKeyword = errors.New("unknown keyword")

// AccessType is the software or hardware access capability of a field.
// The zero value means the property was never assigned.
type AccessType int

const (
	AccessUnset AccessType = iota
	AccessRW
	AccessR
	AccessW
	AccessRW1
	AccessW1
	AccessNA
)

var accessNames = map[string]AccessType{
	"rw":  AccessRW,
	"wr":  AccessRW,
	"r":   AccessR,
	"w":   AccessW,
	"rw1": AccessRW1,
	"w1":  AccessW1,
	"na":  AccessNA,
}

var accessStrings = [...]string{
	AccessUnset: "",
	AccessRW:    "rw",
	AccessR:     "r",
	AccessW:     "w",
	AccessRW1:   "rw1",
	AccessW1:    "w1",
	AccessNA:    "na",
}

// ParseAccessType resolves an access keyword. "wr" is accepted as a synonym
// of "rw". Matching is case-sensitive.
func ParseAccessType(s string) (AccessType, error) {
	if a, ok := accessNames[s]; ok {
		return a, nil
	}
	return AccessUnset, fmt.Errorf("%w: access type %q", ErrUnknownKeyword, s)
}

func (a AccessType) String() string {
	if a >= 0 && int(a) < len(accessStrings) {
		return accessStrings[a]
	}
	return fmt.Sprintf("AccessType(%d)", int(a))
}

// Readable reports whether the access type permits reads.
func (a AccessType) Readable() bool {
	return a == AccessRW || a == AccessR || a == AccessRW1
}

// Writable reports whether the access type permits writes.
func (a AccessType) Writable() bool {
	return a == AccessRW || a == AccessW || a == AccessRW1 || a == AccessW1
}

// OnReadType is the side effect of a software read.
type OnReadType int

const (
	OnReadNone OnReadType = iota
	OnReadClear
	OnReadSet
	OnReadUser
)

var onReadNames = map[string]OnReadType{
	"rclr":  OnReadClear,
	"rset":  OnReadSet,
	"ruser": OnReadUser,
}

var onReadStrings = [...]string{
	OnReadNone:  "",
	OnReadClear: "rclr",
	OnReadSet:   "rset",
	OnReadUser:  "ruser",
}

// ParseOnReadType resolves an on-read side-effect keyword.
func ParseOnReadType(s string) (OnReadType, error) {
	if t, ok := onReadNames[s]; ok {
		return t, nil
	}
	return OnReadNone, fmt.Errorf("%w: onread type %q", ErrUnknownKeyword, s)
}

func (t OnReadType) String() string {
	if t >= 0 && int(t) < len(onReadStrings) {
		return onReadStrings[t]
	}
	return fmt.Sprintf("OnReadType(%d)", int(t))
}

// OnWriteType is the side effect of a software write.
type OnWriteType int

const (
	OnWriteNone OnWriteType = iota
	OnWriteOneSet
	OnWriteOneClear
	OnWriteOneToggle
	OnWriteZeroSet
	OnWriteZeroClear
	OnWriteZeroToggle
	OnWriteClear
	OnWriteSet
	OnWriteUser
)

var onWriteNames = map[string]OnWriteType{
	"woset": OnWriteOneSet,
	"woclr": OnWriteOneClear,
	"wot":   OnWriteOneToggle,
	"wzs":   OnWriteZeroSet,
	"wzc":   OnWriteZeroClear,
	"wzt":   OnWriteZeroToggle,
	"wclr":  OnWriteClear,
	"wset":  OnWriteSet,
	"wuser": OnWriteUser,
}

var onWriteStrings = [...]string{
	OnWriteNone:       "",
	OnWriteOneSet:     "woset",
	OnWriteOneClear:   "woclr",
	OnWriteOneToggle:  "wot",
	OnWriteZeroSet:    "wzs",
	OnWriteZeroClear:  "wzc",
	OnWriteZeroToggle: "wzt",
	OnWriteClear:      "wclr",
	OnWriteSet:        "wset",
	OnWriteUser:       "wuser",
}

// ParseOnWriteType resolves an on-write side-effect keyword.
func ParseOnWriteType(s string) (OnWriteType, error) {
	if t, ok := onWriteNames[s]; ok {
		return t, nil
	}
	return OnWriteNone, fmt.Errorf("%w: onwrite type %q", ErrUnknownKeyword, s)
}

func (t OnWriteType) String() string {
	if t >= 0 && int(t) < len(onWriteStrings) {
		return onWriteStrings[t]
	}
	return fmt.Sprintf("OnWriteType(%d)", int(t))
}
