package repository

import "errors"

var (
	// 対象の行が無い
	ErrNotFound = errors.New("not found")

	// ユニーク制約違反（email重複・お気に入り重複など）
	ErrConflict = errors.New("conflict")
)
