package domain

import "errors"

// Бизнес-ошибки (маппятся на HTTP коды в transport/web/v1)
var (
	ErrBadParams        = errors.New("bad_params")         // 400
	ErrForbidden        = errors.New("forbidden")          // 403
	ErrNotFound         = errors.New("not_found")          // 404
	ErrMethodNotAllowed = errors.New("method_not_allowed") // 405
	ErrTooLarge         = errors.New("too_large")          // 413
	ErrUnsupportedMedia = errors.New("unsupported_media")  // 415
	ErrUnexpected       = errors.New("unexpected")         // 500
)

// Коды для конверта ошибок
const (
	ErrCodeBadParams        = 1000
	ErrCodeForbidden        = 1003
	ErrCodeNotFound         = 1004
	ErrCodeMethodNotAllowed = 1005
	ErrCodeTooLarge         = 1013
	ErrCodeUnsupportedMedia = 1015
	ErrCodeUnexpected       = 1500
)
