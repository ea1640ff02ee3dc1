package bencheval

// Export internal symbols for white-box tests in bencheval package.
var (
	ImprovementLine = improvementLine
)
