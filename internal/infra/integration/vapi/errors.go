package vapi

import "errors"

var ErrAssistantNotFound = errors.New("assistant not found")
