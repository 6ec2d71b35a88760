package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal server error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("your requested item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("your item already exist")
	// ErrDuplicate signals a unique-key violation on insert. The like ledger
	// treats it as "already liked", callers above the ledger never see it.
	ErrDuplicate = errors.New("duplicate key")
	// ErrCacheMiss will throw if the requested key is not in cache
	ErrCacheMiss = errors.New("cache miss")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given param is not valid")
	// ErrUnauthorized will throw if the request carries no valid credential
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden will throw if the requester may not act on the item
	ErrForbidden = errors.New("forbidden")
)
