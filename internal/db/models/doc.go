// Package models holds the gorm models of the directory store.
package models
