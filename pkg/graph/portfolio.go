package graph

// FullyConnect flattens buckets into a graph. Each node takes its bucket's
// category when it has none of its own, and every pair of nodes inside a
// bucket is joined by one edge. Nodes keep bucket order.
func FullyConnect(buckets []Bucket) Graph {
	var g Graph
	for _, b := range buckets {
		start := len(g.Nodes)
		for _, n := range b.Nodes {
			if n.Category == "" {
				n.Category = b.Category
			}
			g.Nodes = append(g.Nodes, n)
		}
		members := g.Nodes[start:]
		for i := range members {
			for j := i + 1; j < len(members); j++ {
				g.Edges = append(g.Edges, Edge{Source: members[i].ID, Target: members[j].ID})
			}
		}
	}
	return g
}

// PortfolioBuckets returns the built-in technology buckets.
func PortfolioBuckets() []Bucket {
	return []Bucket{
		{Category: CategoryFrontend, Nodes: []Node{
			{ID: 0, Name: "JavaScript", Icon: "/icons/javascript.svg"},
			{ID: 1, Name: "TypeScript", Icon: "/icons/typescript.svg"},
			{ID: 2, Name: "Next.js", Icon: "/icons/nextjs.svg"},
			{ID: 13, Name: "Tailwind CSS", Icon: "/icons/tailwind.svg"},
			{ID: 14, Name: "Vite", Icon: "/icons/vite.svg"},
			{ID: 16, Name: "Jest", Icon: "/icons/jest.svg"},
		}},
		{Category: CategoryBackend, Nodes: []Node{
			{ID: 3, Name: "Rust", Icon: "/icons/rust.svg"},
			{ID: 4, Name: "Java", Icon: "/icons/java.svg"},
			{ID: 5, Name: "PostgreSQL", Icon: "/icons/postgresql.svg"},
			{ID: 6, Name: "MongoDB", Icon: "/icons/mongodb.svg"},
			{ID: 9, Name: "Python", Icon: "/icons/python.svg"},
		}},
		{Category: CategoryDevOps, Nodes: []Node{
			{ID: 7, Name: "Azure", Icon: "/icons/azure.svg"},
			{ID: 8, Name: "AWS", Icon: "/icons/aws.svg"},
			{ID: 11, Name: "Docker", Icon: "/icons/docker.svg"},
			{ID: 12, Name: "Linux", Icon: "/icons/linux.svg"},
		}},
		{Category: CategoryTooling, Nodes: []Node{
			{ID: 10, Name: "Git", Icon: "/icons/git.svg"},
			{ID: 15, Name: "GitHub", Icon: "/icons/github.svg"},
		}},
	}
}

// Portfolio returns the built-in diagram: 17 nodes in four fully connected
// buckets of 6, 5, 4 and 2 nodes.
func Portfolio() Graph {
	return FullyConnect(PortfolioBuckets())
}
