package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCatalogDeterministic(t *testing.T) {
	first := BuildCatalog()
	second := BuildCatalog()

	require.Equal(t, len(first), len(second))
	assert.Equal(t, first, second)
}

func TestBuildCatalogPositionalIDs(t *testing.T) {
	modules := BuildCatalog()
	require.NotEmpty(t, modules)

	for i, m := range modules {
		assert.Equal(t, i+1, m.ID, "module %q", m.Title)
	}
}

func TestBuildCatalogCategoryOrder(t *testing.T) {
	modules := BuildCatalog()
	order := Categories()

	require.Equal(t, []string{
		"Introduction", "Cloud Fundamentals", "AWS Core Services", "Linux",
		"Networking", "Security", "Python Programming", "Databases",
		"AWS Architecture", "Systems Operations", "Exam Prep",
	}, order)

	// Modules appear grouped by category, in table order.
	seen := map[string]bool{}
	var sequence []string
	for _, m := range modules {
		if !seen[m.Category] {
			seen[m.Category] = true
			sequence = append(sequence, m.Category)
		}
	}
	assert.Equal(t, order, sequence)
}

func TestBuildCatalogSize(t *testing.T) {
	modules := BuildCatalog()
	assert.Len(t, modules, 90)

	assert.Equal(t, "Introduction to Computing", modules[0].Title)
	assert.Equal(t, "Introduction", modules[0].Category)
	assert.Equal(t, "Additional AWS Topics", modules[len(modules)-1].Title)
	assert.Equal(t, "Exam Prep", modules[len(modules)-1].Category)
}

func TestClassifyLabSignifiers(t *testing.T) {
	for _, title := range []string{
		"[LX] Working with the File System",
		"Module 4 Lab",
		"Guided Exercise: IAM Policies",
		"Networking Challenge",
	} {
		isLab, _, _, _, _ := Classify(title)
		assert.True(t, isLab, title)
	}
}

func TestClassifyChallengeGatedOnKC(t *testing.T) {
	// A plain challenge is a lab.
	isLab, isKC, _, _, _ := Classify("Python Challenge")
	assert.True(t, isLab)
	assert.False(t, isKC)

	// A knowledge-check challenge is not.
	isLab, isKC, _, _, _ = Classify("KC Challenge")
	assert.False(t, isLab)
	assert.True(t, isKC)
}

func TestClassifyKCSignifiers(t *testing.T) {
	for _, title := range []string{
		"Linux KC",
		"Security Knowledge Check",
		"Module Assessment",
		"Networking Quiz",
		"Practice Exam 1",
	} {
		_, isKC, _, _, _ := Classify(title)
		assert.True(t, isKC, title)
	}
}

func TestClassifyExitTicketAndDemo(t *testing.T) {
	_, _, isExitTicket, _, _ := Classify("Day 3 Exit Ticket")
	assert.True(t, isExitTicket)

	_, _, _, isDemo, _ := Classify("EC2 Demonstration")
	assert.True(t, isDemo)

	_, _, _, isDemo, _ = Classify("S3 Demo")
	assert.True(t, isDemo)
}

func TestClassifyActivitySuppressedByEarlierFlags(t *testing.T) {
	// Plain activity.
	_, _, _, _, isActivity := Classify("Cafe Activity: Budgets")
	assert.True(t, isActivity)

	// Any prior flag suppresses the activity flag.
	isLab, _, _, _, isActivity := Classify("Lab Activity")
	assert.True(t, isLab)
	assert.False(t, isActivity)

	_, isKC, _, _, isActivity := Classify("KC Fact Finding")
	assert.True(t, isKC)
	assert.False(t, isActivity)

	_, _, isExitTicket, _, isActivity := Classify("Exit Ticket Activity")
	assert.True(t, isExitTicket)
	assert.False(t, isActivity)

	_, _, _, isDemo, isActivity := Classify("Troubleshoot Demo")
	assert.True(t, isDemo)
	assert.False(t, isActivity)
}

func TestClassifyOverlappingFlags(t *testing.T) {
	// Flags 1-4 may legitimately overlap.
	isLab, isKC, _, _, _ := Classify("[DB] Lab KC Review")
	assert.True(t, isLab)
	assert.True(t, isKC)
}

func TestClassifyNoFlags(t *testing.T) {
	isLab, isKC, isExitTicket, isDemo, isActivity := Classify("Introduction to Computing")
	assert.False(t, isLab)
	assert.False(t, isKC)
	assert.False(t, isExitTicket)
	assert.False(t, isDemo)
	assert.False(t, isActivity)
}

func TestCompanionGeneration(t *testing.T) {
	// Topics that carry KC or Lab markers get companion modules directly
	// after the base entry, re-numbered in sequence.
	original := courseStructure
	courseStructure = []categoryBlock{
		{"Test", []string{"Topic One KC", "Topic Two Lab", "Topic Three"}},
	}
	defer func() { courseStructure = original }()

	modules := BuildCatalog()
	require.Len(t, modules, 5)

	assert.Equal(t, "Topic One KC", modules[0].Title)
	assert.Equal(t, "Topic One KC - Knowledge Check", modules[1].Title)
	assert.True(t, modules[1].IsKC)

	assert.Equal(t, "Topic Two Lab", modules[2].Title)
	assert.Equal(t, "Topic Two Lab - Lab", modules[3].Title)
	assert.True(t, modules[3].IsLab)

	assert.Equal(t, "Topic Three", modules[4].Title)

	for i, m := range modules {
		assert.Equal(t, i+1, m.ID)
	}
}
