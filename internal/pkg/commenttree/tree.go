// Package commenttree 将扁平评论列表组装为按时间倒序排列的回复树。
package commenttree

import (
	"sort"

	"github.com/qs3c/postboard_go_server/internal/model"
)

// Build 构建评论树并返回根节点列表。
//
// 同一层级按 createdAt 倒序（最新在前）稳定排序，时间相同的保持输入顺序。
// parentId 指向不存在评论的节点会被直接丢弃。
// id 重复时只保留最后一条（last-one-wins），其余同 id 评论被忽略。
func Build(comments []model.Comment) []*model.CommentNode {
	roots := make([]*model.CommentNode, 0)
	if len(comments) == 0 {
		return roots
	}

	// 第一遍：创建所有节点
	nodes := make(map[string]*model.CommentNode, len(comments))
	last := make(map[string]int, len(comments))
	for i, c := range comments {
		nodes[c.ID] = &model.CommentNode{
			Comment: c,
			Replies: make([]*model.CommentNode, 0),
		}
		last[c.ID] = i
	}

	// 第二遍：挂接父子关系。每个 id 只有一个父指针，环上的节点不可能从根到达
	for i, c := range comments {
		if last[c.ID] != i {
			continue
		}
		node := nodes[c.ID]
		if c.IsRoot() {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*c.ParentID]
		if !ok {
			continue
		}
		parent.Replies = append(parent.Replies, node)
	}

	sortForest(roots)
	return roots
}

// sortForest 逐层排序，使用显式栈避免深层递归
func sortForest(roots []*model.CommentNode) {
	stack := [][]*model.CommentNode{roots}
	for len(stack) > 0 {
		level := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		sortByNewest(level)
		for _, n := range level {
			if len(n.Replies) > 0 {
				stack = append(stack, n.Replies)
			}
		}
	}
}

func sortByNewest(nodes []*model.CommentNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].CreatedAt.Time.After(nodes[j].CreatedAt.Time)
	})
}

// Orphans 返回 parentId 无法在输入中解析的评论，保持输入顺序
func Orphans(comments []model.Comment) []model.Comment {
	ids := make(map[string]struct{}, len(comments))
	for _, c := range comments {
		ids[c.ID] = struct{}{}
	}

	var orphans []model.Comment
	for _, c := range comments {
		if c.IsRoot() {
			continue
		}
		if _, ok := ids[*c.ParentID]; !ok {
			orphans = append(orphans, c)
		}
	}
	return orphans
}

// Count 统计森林中的节点数
func Count(forest []*model.CommentNode) int {
	total := 0
	walk(forest, 1, func(*model.CommentNode, int) { total++ })
	return total
}

// Depth 返回最大嵌套深度，根节点为 1，空森林为 0
func Depth(forest []*model.CommentNode) int {
	deepest := 0
	walk(forest, 1, func(_ *model.CommentNode, depth int) {
		if depth > deepest {
			deepest = depth
		}
	})
	return deepest
}

func walk(forest []*model.CommentNode, depth int, fn func(*model.CommentNode, int)) {
	type frame struct {
		node  *model.CommentNode
		depth int
	}
	stack := make([]frame, 0, len(forest))
	for _, n := range forest {
		stack = append(stack, frame{n, depth})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(f.node, f.depth)
		for _, r := range f.node.Replies {
			stack = append(stack, frame{r, f.depth + 1})
		}
	}
}
