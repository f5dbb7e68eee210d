package domain

import "errors"

// Бизнес-ошибки (маппятся на HTTP коды единой таблицей в transport/web/v1)
var (
	ErrBadParams          = errors.New("bad_params")          // 400
	ErrConflict           = errors.New("conflict")            // 409 — дубликат email
	ErrInvalidCredentials = errors.New("invalid_credentials") // 400 — намеренно не различаем «нет юзера» и «не тот пароль»
	ErrUnverified         = errors.New("unverified")          // 401
	ErrMissingToken       = errors.New("missing_token")       // 400
	ErrInvalidSignature   = errors.New("invalid_signature")   // 401
	ErrExpired            = errors.New("token_expired")       // 401
	ErrWrongKind          = errors.New("wrong_token_kind")    // 401
	ErrRevoked            = errors.New("token_revoked")       // 401
	ErrUnauth             = errors.New("unauthenticated")     // 401 — токен валиден, но subject не резолвится
	ErrForbidden          = errors.New("forbidden")           // 403
	ErrNotFound           = errors.New("not_found")           // 404
	ErrMethodNotAllowed   = errors.New("method_not_allowed")  // 405
	ErrUnexpected         = errors.New("unexpected")          // 500
)
