// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrEmptyItemKey is returned by [NewAttachment] when the attachment has no
	// item key. The key is the only join key between sync states, so an
	// attachment without one can never be reconciled.
	ErrEmptyItemKey = errors.New("attachment item key is empty")

	// ErrEmptyParentKey is returned by [NewParentItem] when the parent item has
	// no key.
	ErrEmptyParentKey = errors.New("parent item key is empty")
)

const (
	// storagePrefix marks attachments stored inside the catalog's storage
	// directory ("storage:<filename>").
	storagePrefix = "storage:"

	// linkedBasePrefix marks files linked relative to a user-configured base
	// directory. Such files cannot be resolved from the catalog alone.
	linkedBasePrefix = "attachments:"

	// tagSeparator joins parent tags into the single string metadata value.
	tagSeparator = ", "
)

// Metadata field names written to every remote document.
const (
	FieldItemKey         = "itemKey"
	FieldTitle           = "title"
	FieldParentItemKey   = "parentItemKey"
	FieldParentItemTitle = "parentItemTitle"
	FieldParentItemTags  = "parentItemTags"
	FieldParentItemType  = "parentItemType"
	FieldRelPath         = "relpath"
)

// MetadataFieldTypeString is the only remote metadata type the synchronizer uses.
const MetadataFieldTypeString = "string"

// DefaultMetadataFields returns the metadata schema every synchronized dataset
// must declare, keyed by field name.
func DefaultMetadataFields() map[string]string {
	return map[string]string{
		FieldItemKey:         MetadataFieldTypeString,
		FieldTitle:           MetadataFieldTypeString,
		FieldParentItemKey:   MetadataFieldTypeString,
		FieldParentItemTitle: MetadataFieldTypeString,
		FieldParentItemTags:  MetadataFieldTypeString,
		FieldParentItemType:  MetadataFieldTypeString,
		FieldRelPath:         MetadataFieldTypeString,
	}
}

// ParentItem is the bibliographic entry an attachment belongs to.
// Tags is the only field tracked for change detection.
type ParentItem struct {
	ItemID     int64    `json:"itemID"`
	Key        string   `json:"key"`
	Tags       []string `json:"tags"`
	Title      string   `json:"title"`
	ItemTypeID int64    `json:"itemTypeID"`
}

// NewParentItem validates key and returns a ParentItem that owns its own copy
// of tags.
func NewParentItem(itemID int64, key string, tags []string, title string, itemTypeID int64) (ParentItem, error) {
	if strings.TrimSpace(key) == "" {
		return ParentItem{}, ErrEmptyParentKey
	}

	owned := make([]string, len(tags))
	copy(owned, tags)

	return ParentItem{
		ItemID:     itemID,
		Key:        key,
		Tags:       owned,
		Title:      title,
		ItemTypeID: itemTypeID,
	}, nil
}

// TagSet returns the parent's tags as a set.
func (p ParentItem) TagSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Tags))
	for _, t := range p.Tags {
		set[t] = struct{}{}
	}
	return set
}

// SameTags reports whether p and other carry the same set of tags.
// Order and duplicates are ignored.
func (p ParentItem) SameTags(other ParentItem) bool {
	a, b := p.TagSet(), other.TagSet()
	if len(a) != len(b) {
		return false
	}
	for t := range a {
		if _, ok := b[t]; !ok {
			return false
		}
	}
	return true
}

// JoinedTags returns the tags as the single string stored remotely.
func (p ParentItem) JoinedTags() string {
	return strings.Join(p.Tags, tagSeparator)
}

// Attachment is a single file attached to a [ParentItem] in the catalog.
//
// RelPath is nil for URL-only attachments that have no local file.
type Attachment struct {
	ItemID      int64      `json:"itemID"`
	ItemKey     string     `json:"itemKey"`
	ContentType string     `json:"contentType"`
	RelPath     *string    `json:"relpath"`
	Title       string     `json:"title"`
	Parent      ParentItem `json:"parentItem"`
}

// NewAttachment validates itemKey and assembles an Attachment.
func NewAttachment(itemID int64, itemKey, contentType string, relPath *string, title string, parent ParentItem) (Attachment, error) {
	if strings.TrimSpace(itemKey) == "" {
		return Attachment{}, ErrEmptyItemKey
	}

	var owned *string
	if relPath != nil {
		p := *relPath
		owned = &p
	}

	return Attachment{
		ItemID:      itemID,
		ItemKey:     itemKey,
		ContentType: contentType,
		RelPath:     owned,
		Title:       title,
		Parent:      parent,
	}, nil
}

// StoragePath rewrites a catalog path of the form "storage:<filename>" to the
// relative filesystem path "storage/<itemKey>/<filename>". Absolute linked
// paths and base-directory links are returned unchanged.
func StoragePath(itemKey, stored string) string {
	if name, ok := strings.CutPrefix(stored, storagePrefix); ok {
		return filepath.ToSlash(filepath.Join("storage", itemKey, name))
	}
	return stored
}

// Downloadable reports whether the attachment can have a local file at all.
// URL-only attachments and base-directory links are not downloadable.
func (a Attachment) Downloadable() bool {
	if a.RelPath == nil || *a.RelPath == "" {
		return false
	}
	return !strings.HasPrefix(*a.RelPath, linkedBasePrefix)
}

// AbsPath resolves the attachment's local file under dataDir.
// It returns an empty string when the attachment is not downloadable.
func (a Attachment) AbsPath(dataDir string) string {
	if !a.Downloadable() {
		return ""
	}

	p := filepath.FromSlash(*a.RelPath)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dataDir, p)
}

// RelPathValue returns RelPath or an empty string when it is nil.
func (a Attachment) RelPathValue() string {
	if a.RelPath == nil {
		return ""
	}
	return *a.RelPath
}

// MetadataValues returns the metadata written to the remote document,
// keyed by field name.
func (a Attachment) MetadataValues() map[string]string {
	return map[string]string{
		FieldItemKey:         a.ItemKey,
		FieldTitle:           a.Title,
		FieldParentItemKey:   a.Parent.Key,
		FieldParentItemTitle: a.Parent.Title,
		FieldParentItemTags:  a.Parent.JoinedTags(),
		FieldParentItemType:  strconv.FormatInt(a.Parent.ItemTypeID, 10),
		FieldRelPath:         a.RelPathValue(),
	}
}
