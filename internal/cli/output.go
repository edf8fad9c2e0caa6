package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
)

// Field — одна строка текстового вывода: имя и значение.
type Field struct {
	Name  string
	Value string
}

// Output пишет результат команды в stdout и сообщения оператору в stderr.
type Output struct {
	jsonMode bool
	w        io.Writer
	errW     io.Writer
}

// NewOutput создаёт Output поверх os.Stdout и os.Stderr.
func NewOutput(jsonMode bool) *Output {
	return newOutputTo(jsonMode, os.Stdout, os.Stderr)
}

func newOutputTo(jsonMode bool, w, errW io.Writer) *Output {
	return &Output{jsonMode: jsonMode, w: w, errW: errW}
}

// Record выводит один результат: v как JSON в режиме --json,
// иначе fields выровненными парами "ИМЯ  значение".
func (o *Output) Record(fields []Field, v any) error {
	if o.jsonMode {
		enc := json.NewEncoder(o.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	for _, f := range fields {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", f.Name, f.Value); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Notice пишет сообщение в stderr, не смешивая его с данными.
func (o *Output) Notice(format string, args ...any) {
	fmt.Fprintf(o.errW, format+"\n", args...)
}
