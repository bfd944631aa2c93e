package service

import "errors"

// Sentinel errors for service layer
var (
	ErrVerification = errors.New("verification failed")
)
