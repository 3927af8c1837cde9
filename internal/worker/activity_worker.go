package worker

import (
	"github.com/spec-kit/crm-service/internal/service"
)

// StartActivityWorker registers activity trail handlers.
func StartActivityWorker(activityService *service.ActivityService) {
	if activityService == nil {
		return
	}
	activityService.RegisterHandlers()
}
