package auditlog

import (
	"log"

	"github.com/sangphomma/Siriwong-Inventory-App/pkg/models"
)

type LogPersister interface {
	PersistLog(auditLog models.AuditLog, data interface{}) error
}

type Auditlog struct {
	r LogPersister
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

// Log writes an audit entry for a ledger or workflow action. Best effort:
// a failed write is logged and never blocks the business operation.
func (a *Auditlog) Log(action string, data interface{}, item Auditable) {
	auditLog := item.CreateLogView()
	auditLog.Action = action

	err := a.r.PersistLog(auditLog, data)
	if err != nil {
		log.Println("Unable to create AuditLog entry for id ", auditLog.ResourceID)
		return
	}
}

func NewAuditLog(repository LogPersister) *Auditlog {
	a := Auditlog{r: repository}

	return &a
}
