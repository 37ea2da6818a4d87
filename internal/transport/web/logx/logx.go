// Package logx — тонкие помощники структурного лога поверх *log.Logger.
// Формат: lvl=<info|error> req_id=<id> op=<op> msg=<msg> [err=...] k=v ...
package logx

import (
	"fmt"
	"log"
	"strings"
)

func Info(l *log.Logger, reqID, op, msg string, kv ...any) {
	l.Printf("lvl=info req_id=%s op=%s msg=%q%s", reqID, op, msg, fields(kv))
}

func Error(l *log.Logger, reqID, op, msg string, err error, kv ...any) {
	l.Printf("lvl=error req_id=%s op=%s msg=%q err=%q%s", reqID, op, msg, errText(err), fields(kv))
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// fields собирает пары key, value; непарный хвост попадает как key=?
func fields(kv []any) string {
	if len(kv) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 < len(kv) {
			sb.WriteString(fmt.Sprintf(" %s=%v", key, kv[i+1]))
		} else {
			sb.WriteString(fmt.Sprintf(" %s=?", key))
		}
	}
	return sb.String()
}
