package recommend

// Role is a catalog entry: a role title and the skills it asks for.
type Role struct {
	Name   string
	Skills []string
}

// catalog order is the tie-break order of the containment ranking.
var catalog = []Role{
	{Name: "Frontend Developer", Skills: []string{
		"html", "css", "javascript", "typescript", "react", "angular", "vue",
		"tailwind", "next.js", "svelte", "figma",
	}},
	{Name: "Backend Developer", Skills: []string{
		"python", "java", "node.js", "express", "django", "flask", "fastapi",
		"spring", "sql", "postgresql", "mysql", "rest api", "graphql",
	}},
	{Name: "Full Stack Developer", Skills: []string{
		"html", "css", "javascript", "typescript", "react", "node.js", "python",
		"django", "fastapi", "postgresql", "mongodb", "docker", "git",
	}},
	{Name: "Data Analyst", Skills: []string{
		"python", "sql", "excel", "power bi", "tableau", "pandas", "numpy",
		"data analysis", "postgresql", "mysql",
	}},
	{Name: "Data Scientist", Skills: []string{
		"python", "machine learning", "deep learning", "nlp", "tensorflow",
		"pytorch", "pandas", "numpy", "sql", "data science",
	}},
	{Name: "ML Engineer", Skills: []string{
		"python", "machine learning", "deep learning", "tensorflow", "pytorch",
		"docker", "kubernetes", "aws", "mlflow", "data science",
	}},
	{Name: "DevOps Engineer", Skills: []string{
		"docker", "kubernetes", "aws", "azure", "gcp", "linux", "ci/cd",
		"git", "python", "terraform",
	}},
	{Name: "Mobile Developer", Skills: []string{
		"flutter", "react native", "swift", "kotlin", "java", "javascript",
		"typescript", "firebase", "git",
	}},
	{Name: "UI/UX Designer", Skills: []string{
		"figma", "photoshop", "html", "css", "javascript", "tailwind",
		"communication", "leadership",
	}},
	{Name: "Cloud Engineer", Skills: []string{
		"aws", "azure", "gcp", "docker", "kubernetes", "linux", "python",
		"ci/cd", "terraform", "git",
	}},
	{Name: "QA / Test Engineer", Skills: []string{
		"python", "java", "selenium", "javascript", "sql", "git", "agile",
		"ci/cd", "rest api", "linux",
	}},
	{Name: "Cybersecurity Analyst", Skills: []string{
		"linux", "python", "networking", "sql", "aws", "azure",
		"communication", "git",
	}},
	{Name: "Product Manager", Skills: []string{
		"agile", "scrum", "communication", "leadership", "project management",
		"data analysis", "sql", "figma", "excel",
	}},
	{Name: "Business Analyst", Skills: []string{
		"excel", "sql", "power bi", "tableau", "communication",
		"project management", "agile", "data analysis",
	}},
	{Name: "Technical Writer", Skills: []string{
		"communication", "html", "git", "python", "agile",
	}},
}

// Catalog returns a copy of the fixed role catalog.
func Catalog() []Role {
	out := make([]Role, 0, len(catalog))
	for _, role := range catalog {
		skills := make([]string, len(role.Skills))
		copy(skills, role.Skills)
		out = append(out, Role{Name: role.Name, Skills: skills})
	}
	return out
}
