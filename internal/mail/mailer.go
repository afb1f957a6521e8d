// Package mail delivers account verification messages. The only shipped
// implementation writes them to the log; hooking up a real provider is a
// deployment concern.
package mail

import (
	"context"

	"github.com/Arzion032/binhi-fms-backend/pkg/logger"
)

type LogMailer struct {
	log logger.Logger
}

func NewLogMailer(log logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.log.Info("mail: outgoing message", "to", to, "subject", subject, "body", body)
	return nil
}
