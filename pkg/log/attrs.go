package log

import "log/slog"

func RunID[T ~string](id T) slog.Attr {
	return slog.String("run_id", string(id))
}

func StepName[T ~string](name T) slog.Attr {
	return slog.String("step", string(name))
}

func Pipeline[T ~string](name T) slog.Attr {
	return slog.String("pipeline", string(name))
}

func Reason[T ~string](reason T) slog.Attr {
	return slog.String("reason", string(reason))
}

func Error(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}

func ErrorString(msg string) slog.Attr {
	return slog.String("error", msg)
}
