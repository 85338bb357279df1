package sqltree

import "errors"

var (
	ErrParseFailed       = errors.New("parse failed")
	ErrGrammarNotFound   = errors.New("sql grammar not found")
	ErrGrammarLoadFailed = errors.New("sql grammar failed to load")
	ErrInvalidQuery      = errors.New("invalid query pattern")
	ErrDownloadFailed    = errors.New("grammar download failed")
	ErrCompileFailed     = errors.New("grammar compilation failed")
)
