package usecase

import "context"

type StatusOutput struct {
	Provisioned bool
}

func (s *Usecase) Status(ctx context.Context) *StatusOutput {
	_, span := s.startSpan(ctx, "Status")
	defer span.End()

	return &StatusOutput{Provisioned: s.store.Provisioned()}
}
