// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"
)

// Catalog item types that are never treated as parent items.
const (
	itemTypeAnnotation = 1
	itemTypeAttachment = 2
)

// fieldIDTitle is the catalog field id holding an item's title.
const fieldIDTitle = 1

// maxQueryParams bounds the number of ids bound into one IN (...) clause,
// staying well below sqlite's host parameter limit.
const maxQueryParams = 500

// parentItemsQuery selects (itemID, tag, key, itemTypeID) rows for every
// non-attachment item carrying a tag that starts with tagPattern.
func parentItemsQuery(tagPattern string) (string, []any, error) {
	return sq.Select("items.itemID", "tags.name", "items.key", "items.itemTypeID").
		From("items").
		Join("itemTags ON items.itemID = itemTags.itemID").
		Join("tags ON itemTags.tagID = tags.tagID").
		Where(sq.Like{"tags.name": tagPattern + "%"}).
		Where(sq.NotEq{"items.itemTypeID": []int{itemTypeAnnotation, itemTypeAttachment}}).
		OrderBy("items.itemID", "tags.name").
		ToSql()
}

// itemTitlesQuery selects (itemID, title) rows for the given items.
func itemTitlesQuery(itemIDs []int64) (string, []any, error) {
	return sq.Select("itemData.itemID", "itemDataValues.value").
		From("itemData").
		Join("itemDataValues ON itemData.valueID = itemDataValues.valueID").
		Where(sq.Eq{"itemData.fieldID": fieldIDTitle}).
		Where(sq.Eq{"itemData.itemID": itemIDs}).
		ToSql()
}

// attachmentsQuery selects (itemID, parentItemID, key, contentType, path)
// rows for every attachment of the given parent items.
func attachmentsQuery(parentIDs []int64) (string, []any, error) {
	return sq.Select(
		"itemAttachments.itemID",
		"itemAttachments.parentItemID",
		"items.key",
		"itemAttachments.contentType",
		"itemAttachments.path",
	).
		From("itemAttachments").
		LeftJoin("items ON itemAttachments.itemID = items.itemID").
		Where(sq.Eq{"itemAttachments.parentItemID": parentIDs}).
		OrderBy("itemAttachments.parentItemID", "itemAttachments.itemID").
		ToSql()
}

// chunkIDs splits ids into consecutive slices of at most size elements.
func chunkIDs(ids []int64, size int) [][]int64 {
	var chunks [][]int64
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}
