// Package tree assembles nested reply trees and ordered top-level views
// from flat comment records.
package tree

import (
	"course-qa/internal/logger"
	"course-qa/internal/models"

	"github.com/google/uuid"
)

// DefaultMaxDepth matches what the web client requests.
const DefaultMaxDepth = 3

// Assemble builds depth-bounded reply trees from a flat comment slice.
//
// Depth-limit policy: once recursion reaches maxDepth, every remaining
// descendant is attached as a flat, single-level list under the node at
// maxDepth, labeled with depth == maxDepth. Nothing is dropped.
//
// Soft-deleted comments stay in the tree with tombstoned content so their
// replies remain reachable. A comment whose parentId points at a record
// that does not exist is surfaced as its own root and the anomaly logged,
// so content is never silently lost.
func Assemble(comments []*models.Comment, maxDepth int, log *logger.Logger) []*models.CommentTree {
	if maxDepth < 0 {
		maxDepth = DefaultMaxDepth
	}

	byID := make(map[uuid.UUID]*models.Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}

	children := make(map[uuid.UUID][]*models.Comment)
	var roots []*models.Comment
	for _, c := range comments {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		if _, ok := byID[*c.ParentID]; !ok {
			log.Warn("comment has dangling parent reference, surfacing as root",
				"commentId", c.ID, "parentId", *c.ParentID)
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	trees := make([]*models.CommentTree, 0, len(roots))
	for _, root := range roots {
		trees = append(trees, assembleNode(root, children, 0, maxDepth))
	}
	return trees
}

func assembleNode(comment *models.Comment, children map[uuid.UUID][]*models.Comment, depth, maxDepth int) *models.CommentTree {
	node := &models.CommentTree{
		Comment: comment,
		Replies: []*models.CommentTree{},
		Depth:   depth,
	}

	if depth == maxDepth {
		descendants := collectDescendants(comment.ID, children)
		node.TotalReplies = len(descendants)
		for _, d := range descendants {
			node.Replies = append(node.Replies, &models.CommentTree{
				Comment:      d,
				Replies:      []*models.CommentTree{},
				TotalReplies: len(collectDescendants(d.ID, children)),
				Depth:        maxDepth,
			})
		}
		return node
	}

	total := 0
	for _, child := range children[comment.ID] {
		childNode := assembleNode(child, children, depth+1, maxDepth)
		node.Replies = append(node.Replies, childNode)
		total += 1 + childNode.TotalReplies
	}
	node.TotalReplies = total
	return node
}

// collectDescendants returns every descendant of id in depth-first order.
func collectDescendants(id uuid.UUID, children map[uuid.UUID][]*models.Comment) []*models.Comment {
	var out []*models.Comment
	for _, child := range children[id] {
		out = append(out, child)
		out = append(out, collectDescendants(child.ID, children)...)
	}
	return out
}
