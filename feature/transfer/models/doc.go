// Package models defines the persisted transfer audit record.
package models
