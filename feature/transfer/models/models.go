package models

import (
	"path"
	"strings"
	"time"
	"unicode"
)

// Operate is the direction of a transfer as seen from the remote asset.
type Operate string

const (
	OperateUpload   Operate = "upload"
	OperateDownload Operate = "download"
)

// Valid reports whether o is a known operation.
func (o Operate) Valid() bool {
	return o == OperateUpload || o == OperateDownload
}

// TransferRecord is the audit row of one file transfer.
//
// Filepath is assigned once at creation. HasFile only ever moves from false
// to true. IsSuccess is nil until a confirmation arrives.
type TransferRecord struct {
	ID         string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Operate    Operate   `gorm:"column:operate;size:16;index" json:"operate"`
	User       string    `gorm:"column:user;size:128;index" json:"user"`
	RemoteAddr string    `gorm:"column:remote_addr;size:128" json:"remoteAddr"`
	Asset      string    `gorm:"column:asset;size:255;index" json:"asset"`
	Account    string    `gorm:"column:account;size:128;index" json:"account"`
	Session    string    `gorm:"column:session;size:36;index" json:"session"`
	Filename   string    `gorm:"column:filename;size:512" json:"filename"`
	Filepath   string    `gorm:"column:filepath;size:1024" json:"filepath"`
	HasFile    bool      `gorm:"column:has_file;not null;default:false;index" json:"hasFile"`
	IsSuccess  *bool     `gorm:"column:is_success" json:"isSuccess"`
	DateStart  time.Time `gorm:"column:date_start;index" json:"dateStart"`
}

// TableName overrides gorm to use the transfer_records table.
func (TransferRecord) TableName() string {
	return "transfer_records"
}

// BuildFilepath returns <prefix>/<YYYY-MM-DD>/<id>/<filename> with the date in UTC.
// The filename is sanitized so a record can never address outside its own directory.
func BuildFilepath(prefix string, date time.Time, id, filename string) string {
	return path.Join(prefix, date.UTC().Format("2006-01-02"), id, SanitizeFilename(filename))
}

// SanitizeFilename strips directory components and control characters.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}
