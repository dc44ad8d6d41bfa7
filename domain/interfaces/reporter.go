package interfaces

import "request_verifier/domain/entities"

// Reporter prints progress lines for a run
type Reporter interface {
	Progress(message string)
	Failure(message string)
	Summary(report *entities.RunReport)
}
