package models

// SyncBase carries the two identifiers every synced table has.
//
// LocalID is assigned by the local store on insert and never leaves the
// device. RemoteID is empty until the first successful push creates the
// cloud counterpart; once set, it is the sole linkage between the two
// stores. Both are excluded from wire payloads.
type SyncBase struct {
	LocalID  uint   `gorm:"primaryKey" json:"-"`
	RemoteID string `gorm:"index" json:"-"`
}

func (b SyncBase) GetLocalID() uint { return b.LocalID }

func (b SyncBase) GetRemoteID() string { return b.RemoteID }

func (b *SyncBase) SetLocalID(id uint) { b.LocalID = id }

func (b *SyncBase) SetRemoteID(id string) { b.RemoteID = id }

// SyncedRecord is implemented by every model the sync engine reconciles.
type SyncedRecord interface {
	GetLocalID() uint
	GetRemoteID() string
}
