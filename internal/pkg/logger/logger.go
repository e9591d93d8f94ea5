package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// 很小的日志包装，key-value 式输出，够用就行
type Logger struct {
	std   *log.Logger
	debug bool
}

// Init env 为 dev 时打开 debug 输出
func Init(env string) *Logger {
	l := log.New(os.Stdout, "", log.LstdFlags|log.Lmsgprefix)
	return &Logger{std: l, debug: env == "dev"}
}

func (l *Logger) Info(msg string, kvs ...any)  { l.std.Print(format("INFO", msg, kvs)) }
func (l *Logger) Error(msg string, kvs ...any) { l.std.Print(format("ERROR", msg, kvs)) }

func (l *Logger) Debug(msg string, kvs ...any) {
	if l.debug {
		l.std.Print(format("DEBUG", msg, kvs))
	}
}

func (l *Logger) Fatal(msg string, kvs ...any) {
	l.std.Print(format("FATAL", msg, kvs))
	os.Exit(1)
}

func (l *Logger) Sync() error { return nil }

func format(level, msg string, kvs []any) string {
	var b strings.Builder
	b.WriteString(level)
	b.WriteString(": ")
	b.WriteString(msg)
	for i := 0; i+1 < len(kvs); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kvs[i], kvs[i+1])
	}
	return b.String()
}
