package logger

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

type Field struct {
	Key   string
	Value interface{}
}

var (
	mu    sync.Mutex
	out   io.Writer = os.Stdout
	debug           = os.Getenv("DEBUG") == "1"
)

// SetOutput redirects log lines, mostly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// SetDebug toggles debug lines at runtime (config may override DEBUG).
func SetDebug(on bool) {
	mu.Lock()
	defer mu.Unlock()
	debug = on
}

func log(level, msg string, fields []Field, err error) {
	entry := map[string]interface{}{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"level": level,
		"msg":   msg,
	}
	if err != nil {
		entry["error"] = err.Error()
	}
	for _, f := range fields {
		entry[f.Key] = f.Value
	}
	mu.Lock()
	defer mu.Unlock()
	_ = json.NewEncoder(out).Encode(entry)
}

func Info(msg string, fields ...Field) {
	log("info", msg, fields, nil)
}

func Warn(msg string, fields ...Field) {
	log("warn", msg, fields, nil)
}

func Error(msg string, err error, fields ...Field) {
	log("error", msg, fields, err)
}

func Debug(msg string, fields ...Field) {
	mu.Lock()
	on := debug
	mu.Unlock()
	if on {
		log("debug", msg, fields, nil)
	}
}

func FieldKV(key string, value interface{}) Field { return Field{Key: key, Value: value} }
