// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package libnwam

// Error is the error code returned by the configuration API. Codes are
// comparable so callers can use errors.Is on wrapped errors.
type Error int

const (
	ErrInternal Error = iota + 1
	ErrInvalidArg
	ErrNoMemory
	ErrBindFailed
	ErrEntityExists
	ErrEntityNotFound
	ErrEntityTypeMismatch
	ErrEntityInvalid
	ErrEntityInvalidMember
	ErrEntityInvalidValue
	ErrEntityMissingMember
	ErrEntityNoValue
	ErrEntityMultipleValues
	ErrEntityReadOnly
	ErrEntityNotModifiable
	ErrEntityNotDestroyable
	ErrEntityInUse
	ErrPermissionDenied
)

var errorStrings = map[Error]string{
	ErrInternal:             "internal error",
	ErrInvalidArg:           "invalid argument",
	ErrNoMemory:             "insufficient memory",
	ErrBindFailed:           "could not bind to the configuration repository",
	ErrEntityExists:         "entity exists",
	ErrEntityNotFound:       "entity not found",
	ErrEntityTypeMismatch:   "entity type mismatch",
	ErrEntityInvalid:        "validation of entity failed",
	ErrEntityInvalidMember:  "invalid property",
	ErrEntityInvalidValue:   "invalid property value",
	ErrEntityMissingMember:  "missing required property",
	ErrEntityNoValue:        "no value associated with this property",
	ErrEntityMultipleValues: "multiple values for this property",
	ErrEntityReadOnly:       "property is read-only",
	ErrEntityNotModifiable:  "entity cannot be modified",
	ErrEntityNotDestroyable: "entity cannot be destroyed",
	ErrEntityInUse:          "entity is in use",
	ErrPermissionDenied:     "permission denied",
}

func (e Error) Error() string {
	if s, ok := errorStrings[e]; ok {
		return s
	}
	return "unknown error"
}
