package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New возвращает логгер сервиса: JSON и Info-уровень в release-режиме gin,
// текстовый вывод и debug во всех остальных окружениях.
func New(output io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(output)
	l.SetFormatter(new(logrus.JSONFormatter))
	l.SetLevel(logrus.InfoLevel)

	if os.Getenv("GIN_MODE") != "release" {
		l.SetLevel(logrus.DebugLevel)
		l.SetFormatter(new(logrus.TextFormatter))
	}

	return l
}
