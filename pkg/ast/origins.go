package ast

// AnnotateOrigins records path as the origin of every node reachable from
// root. Nodes already present in table keep their first origin.
func AnnotateOrigins(root Node, path string, table map[Node]string) {
	if root == nil || path == "" || table == nil {
		return
	}
	Walk(root, func(n Node) bool {
		if _, ok := table[n]; ok {
			return false
		}
		table[n] = path
		return true
	})
}
