// Package principals looks up the durable records behind authenticated actors.
package principals

import (
	"time"

	"github.com/google/uuid"
)

// Role names used as the token "type" discriminator.
const (
	RoleSystemAdmin       = "SystemAdmin"
	RoleWorkflowManager   = "WorkflowManager"
	RoleTriggerOperator   = "TriggerOperator"
	RoleWorkerService     = "WorkerService"
	RoleOrganizationAdmin = "OrganizationAdmin"
	RoleReceptionist      = "Receptionist"
	RoleTechnician        = "Technician"
	RoleHrRecruiter       = "HrRecruiter"
)

// Record is the durable row representing an authenticated actor.
type Record struct {
	ID             uuid.UUID
	OrganizationID *uuid.UUID
	DeletedAt      *time.Time
}

// Active reports whether the record may authorize requests.
func (r Record) Active() bool {
	return r.DeletedAt == nil
}

// Tables maps every role onto the table holding its principals.
var Tables = map[string]string{
	RoleSystemAdmin:       "system_admins",
	RoleWorkflowManager:   "workflow_managers",
	RoleTriggerOperator:   "trigger_operators",
	RoleWorkerService:     "worker_services",
	RoleOrganizationAdmin: "organization_admins",
	RoleReceptionist:      "receptionists",
	RoleTechnician:        "technicians",
	RoleHrRecruiter:       "hr_recruiters",
}

// Roles returns the registered role names in a stable order.
func Roles() []string {
	return []string{
		RoleSystemAdmin,
		RoleWorkflowManager,
		RoleTriggerOperator,
		RoleWorkerService,
		RoleOrganizationAdmin,
		RoleReceptionist,
		RoleTechnician,
		RoleHrRecruiter,
	}
}
