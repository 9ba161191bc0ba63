package models

import (
	"time"

	"github.com/google/uuid"
)

// DNSRecordType is the DNS record type of a managed domain record
type DNSRecordType string

const (
	RecordTypeA     DNSRecordType = "A"
	RecordTypeAAAA  DNSRecordType = "AAAA"
	RecordTypeCNAME DNSRecordType = "CNAME"
	RecordTypeMX    DNSRecordType = "MX"
	RecordTypeTXT   DNSRecordType = "TXT"
	RecordTypeNS    DNSRecordType = "NS"
	RecordTypeSRV   DNSRecordType = "SRV"
)

// IsValid reports whether the record type is one of the supported values
func (t DNSRecordType) IsValid() bool {
	switch t {
	case RecordTypeA, RecordTypeAAAA, RecordTypeCNAME, RecordTypeMX,
		RecordTypeTXT, RecordTypeNS, RecordTypeSRV:
		return true
	}
	return false
}

// Domain is a managed domain record. Admin holds the owning username
// and is the only field the authorizer consults.
type Domain struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description,omitempty"`
	TargetAddress string                 `json:"targetAddress"`
	RecordType    DNSRecordType          `json:"recordType"`
	TTL           int                    `json:"ttl,omitempty"`
	Priority      *int                   `json:"priority,omitempty"`
	Admin         string                 `json:"admin"`
	Enabled       bool                   `json:"enabled"`
	Creator       string                 `json:"creator,omitempty"`
	Updater       string                 `json:"updater,omitempty"`
	Tags          []string               `json:"tags,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

// NewDomain creates a domain record with a fresh id and timestamps
func NewDomain(name, targetAddress string, recordType DNSRecordType, admin string) *Domain {
	now := time.Now().UTC()
	return &Domain{
		ID:            uuid.New().String(),
		Name:          name,
		TargetAddress: targetAddress,
		RecordType:    recordType,
		Admin:         admin,
		Enabled:       true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
