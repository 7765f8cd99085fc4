package pipeline

import (
	"fmt"
	"io"
	"strings"
)

// statusLine formats one machine-parseable stage summary. Values containing
// spaces are quoted.
func statusLine(stage string, err error, kv ...any) string {
	var b strings.Builder
	b.WriteString("stage=")
	b.WriteString(stage)
	if err != nil {
		b.WriteString(" status=error")
		kv = append(kv, "error", err.Error())
	} else {
		b.WriteString(" status=ok")
	}
	for i := 0; i+1 < len(kv); i += 2 {
		var v string
		switch x := kv[i+1].(type) {
		case float64:
			v = fmt.Sprintf("%.4f", x)
		default:
			v = fmt.Sprint(x)
		}
		if strings.ContainsAny(v, " \t\"=") {
			v = fmt.Sprintf("%q", v)
		}
		fmt.Fprintf(&b, " %v=%s", kv[i], v)
	}
	return b.String()
}

func writeStatus(w io.Writer, stage string, err error, kv ...any) {
	if w == nil {
		return
	}
	fmt.Fprintln(w, statusLine(stage, err, kv...))
}
