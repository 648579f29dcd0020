package audit

import (
	"fmt"
	"strconv"
)

// ShareIssueEvent records issuance of a share link for a contact.
type ShareIssueEvent struct {
	ContactID    string
	Actor        string
	ClientIP     string
	TTLSeconds   *int
	MaxUses      *int
	Success      bool
	ErrorMessage string
}

func (e ShareIssueEvent) MessageID() string {
	return "share-issue"
}

func (e ShareIssueEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s issued a share link for contact %s", e.Actor, e.ContactID)
	}
	msg := fmt.Sprintf("%s failed to issue a share link for contact %s", e.Actor, e.ContactID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e ShareIssueEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e ShareIssueEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ShareIssueEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
		},
		SDIDSubject: {
			"contact": e.ContactID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "share-issue",
			"result":    resultString(e.Success),
		},
	}
	if e.TTLSeconds != nil {
		sd[SDIDAction]["ttl"] = strconv.Itoa(*e.TTLSeconds)
	}
	if e.MaxUses != nil {
		sd[SDIDAction]["max_uses"] = strconv.Itoa(*e.MaxUses)
	}
	return sd
}

// ShareConsumeEvent records an unauthenticated fetch through a share link.
// Failures are logged without distinguishing the cause, mirroring the
// uniform error returned to the caller.
type ShareConsumeEvent struct {
	ContactID string
	ClientIP  string
	Success   bool
}

func (e ShareConsumeEvent) MessageID() string {
	return "share-consume"
}

func (e ShareConsumeEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("share link consumed for contact %s", e.ContactID)
	}
	return fmt.Sprintf("share link rejected for contact %s", e.ContactID)
}

func (e ShareConsumeEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e ShareConsumeEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ShareConsumeEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {
			"contact": e.ContactID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "share-consume",
			"result":    resultString(e.Success),
		},
	}
}

// SyncRunEvent records the outcome of a directory sync run.
type SyncRunEvent struct {
	Kind         string
	RunID        string
	Actor        string
	Processed    int
	Succeeded    int
	Failed       int
	Success      bool
	ErrorMessage string
}

func (e SyncRunEvent) MessageID() string {
	return "sync"
}

func (e SyncRunEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s sync run %s completed: %d processed, %d succeeded, %d failed",
			e.Kind, e.RunID, e.Processed, e.Succeeded, e.Failed)
	}
	msg := fmt.Sprintf("%s sync run %s failed", e.Kind, e.RunID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e SyncRunEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e SyncRunEvent) Facility() int {
	return FacilityAuth
}

func (e SyncRunEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDSync: {
			"kind":      e.Kind,
			"run":       e.RunID,
			"processed": strconv.Itoa(e.Processed),
			"succeeded": strconv.Itoa(e.Succeeded),
			"failed":    strconv.Itoa(e.Failed),
		},
		SDIDAction: {
			"operation": "sync",
			"result":    resultString(e.Success),
		},
	}
	if e.Actor != "" {
		sd[SDIDAuth] = map[string]string{"user": e.Actor}
	}
	return sd
}

// SettingsUpdateEvent records a change to integration settings.
type SettingsUpdateEvent struct {
	IntegrationType string
	Actor           string
	ClientIP        string
	Enabled         bool
	Success         bool
	ErrorMessage    string
}

func (e SettingsUpdateEvent) MessageID() string {
	return "settings-update"
}

func (e SettingsUpdateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s updated %s integration settings (enabled=%t)",
			e.Actor, e.IntegrationType, e.Enabled)
	}
	msg := fmt.Sprintf("%s failed to update %s integration settings", e.Actor, e.IntegrationType)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e SettingsUpdateEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e SettingsUpdateEvent) Facility() int {
	return FacilityAuthPriv
}

func (e SettingsUpdateEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
		},
		SDIDSubject: {
			"integration": e.IntegrationType,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "settings-update",
			"enabled":   strconv.FormatBool(e.Enabled),
			"result":    resultString(e.Success),
		},
	}
}

// ResourceEvent is the generic "who did what to which resource" event used
// where no dedicated event type exists.
type ResourceEvent struct {
	Action       string
	ResourceKind string
	ResourceID   string // empty for bulk actions
	Actor        string
	ClientIP     string
	Details      map[string]string
	Success      bool
	ErrorMessage string
}

func (e ResourceEvent) MessageID() string {
	return e.Action
}

func (e ResourceEvent) Message() string {
	target := e.ResourceKind
	if e.ResourceID != "" {
		target += " " + e.ResourceID
	}
	if e.Success {
		return fmt.Sprintf("%s performed %s on %s", e.Actor, e.Action, target)
	}
	msg := fmt.Sprintf("%s failed %s on %s", e.Actor, e.Action, target)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e ResourceEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e ResourceEvent) Facility() int {
	return FacilityAuth
}

func (e ResourceEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
		},
		SDIDSubject: {
			"kind": e.ResourceKind,
		},
		SDIDAction: {
			"operation": e.Action,
			"result":    resultString(e.Success),
		},
	}
	if e.ResourceID != "" {
		sd[SDIDSubject]["resource"] = e.ResourceID
	}
	if e.ClientIP != "" {
		sd[SDIDClient] = map[string]string{"ip": e.ClientIP}
	}
	for k, v := range e.Details {
		sd[SDIDAction][k] = v
	}
	return sd
}

func resultString(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
