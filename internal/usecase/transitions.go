package usecase

import "github.com/gauravmindaptix26/leaado-backend/internal/entity"

// allowedTransitions is enforced only when strict transitions are enabled.
// Setting a status to its current value is always accepted.
var allowedTransitions = map[entity.LeadStatus][]entity.LeadStatus{
	entity.StatusUploaded:   {entity.StatusReady, entity.StatusProcessing, entity.StatusFailed},
	entity.StatusReady:      {entity.StatusProcessing, entity.StatusPending, entity.StatusFailed},
	entity.StatusProcessing: {entity.StatusReady, entity.StatusPending, entity.StatusInProcess, entity.StatusSuccess, entity.StatusFailed, entity.StatusRejected},
	entity.StatusPending:    {entity.StatusInProcess, entity.StatusSuccess, entity.StatusFailed, entity.StatusRejected},
	entity.StatusInProcess:  {entity.StatusPending, entity.StatusSuccess, entity.StatusFailed, entity.StatusRejected},
	entity.StatusFailed:     {entity.StatusPending, entity.StatusInProcess},
	entity.StatusRejected:   {entity.StatusPending},
	entity.StatusSuccess:    {},
}

func canTransition(from, to entity.LeadStatus) bool {
	if from == to {
		return true
	}
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
