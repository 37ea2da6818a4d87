// Package admin решает, является ли вызывающий администратором.
// Две взаимоисключающие стратегии: cookie-токен и allowlist по IP.
// Активна ровно одна — выбирается конфигурацией при старте процесса.
package admin

import "net/http"

// Gate — решение "админ/не админ" по входящему запросу.
// Реализации чистые: никаких побочных эффектов и ошибок, неопределённость
// всегда трактуется как «обычный посетитель».
type Gate interface {
	IsAdmin(r *http.Request) bool
}
