// Package catalog holds the static AWS re/start curriculum and the pure
// aggregation logic computed over it. Nothing in this package performs I/O.
package catalog

import "strings"

type Module struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Category        string `json:"category"`
	IsKC            bool   `json:"is_kc"`
	IsLab           bool   `json:"is_lab"`
	IsExitTicket    bool   `json:"is_exit_ticket"`
	IsDemonstration bool   `json:"is_demonstration"`
	IsActivity      bool   `json:"is_activity"`
}

// ProgressMap maps module id to completion. Serialized with string keys
// (encoding/json stringifies integer map keys), matching the document layout
// the web client wrote.
type ProgressMap map[int]bool

type categoryBlock struct {
	Category string
	Topics   []string
}

// courseStructure is the authoritative curriculum table. Module ids are
// positional counters over this table, so its order must never change:
// reordering or inserting mid-table renumbers every module after the edit and
// breaks every stored progress map.
var courseStructure = []categoryBlock{
	{"Introduction", []string{
		"Introduction to Computing", "Basic Computing Concepts", "Development Team Roles",
	}},
	{"Cloud Fundamentals", []string{
		"What is Cloud Computing", "Advantages of Cloud Computing", "What is AWS",
		"AWS Pricing", "AWS Infrastructure Overview", "AWS Services and Categories",
		"AWS Shared Responsibility Model",
	}},
	{"AWS Core Services", []string{
		"AWS S3", "AWS Elastic Compute", "AWS EC2",
	}},
	{"Linux", []string{
		"Introduction to Linux", "Linux Command Line", "Linux Users and Groups",
		"Editing Files in Linux", "Working with the Linux File System",
		"Working with Files in Linux", "Managing Linux File Permissions",
		"Working with Linux Commands", "Managing Linux Processes",
		"Managing Linux Services", "The Bash Shell", "Bash Shell Scripting",
		"Linux Software Management", "Managing Linux Log Files",
	}},
	{"Networking", []string{
		"Introduction to Networking", "Networking Concepts", "Internet Protocol",
		"Networking in the AWS Cloud", "IP Subnetting", "Additional Networking Protocols",
		"Additional Networking Technologies",
	}},
	{"Security", []string{
		"Introduction to Security", "Security Life Cycle – Prevention",
		"Prevention: Network Hardening", "Prevention: System Hardening",
		"Prevention: Data Security", "Prevention: Public Key Infrastructure",
		"Prevention: Identity Management", "Prevention: AWS IAM",
		"Detection", "Response", "Analysis", "Security Best Practices",
		"AWS Compliance Program", "AWS Security Resources",
	}},
	{"Python Programming", []string{
		"Introduction to Python Programming", "Python Basics", "Flow Control",
		"Functions", "Modules and Libraries", "Python for System Administration",
		"Debugging and Testing", "DevOps and Continuous Integration",
		"Configuration Management",
	}},
	{"Databases", []string{
		"Introduction to Databases", "Data Interaction and Database Transaction",
		"Creating Tables and Learning Different Data Types", "Inserting Data into a Database",
		"Selecting Data", "Performing a Conditional Search", "Working with Functions",
		"Organizing Data", "Retrieving Data", "Amazon RDS", "Amazon DynamoDB",
		"Databases Advanced Topics",
	}},
	{"AWS Architecture", []string{
		"AWS Architecture Overview", "AWS Cloud Adoption Framework",
		"AWS Well-Architected Framework", "Well-Architected Principles",
		"Reliability and High Availability", "Transitioning a Data Center to the Cloud",
	}},
	{"Systems Operations", []string{
		"Systems Operations Overview", "Systems Operations on AWS",
		"Tooling and Automation", "Servers", "Scaling and Name Resolution",
		"Serverless and Containers", "AWS Database Services", "AWS Networking Services",
		"Storage and Archiving", "Monitoring and Security",
		"Automated and Repeatable Deployments",
	}},
	{"Exam Prep", []string{
		"AWS Certified Cloud Practitioner Exam Preparation", "Cloud Adoption Framework (CAF)",
		"Trends in Cloud Computing", "Additional AWS Topics",
	}},
}

// labCodes are the bracketed course-unit codes that mark hands-on lab content.
var labCodes = []string{
	"[CF]", "[LX]", "[NF]", "[SEC]", "[PF]", "[DB]", "[AR]", "[SO]", "[EP]",
}

var kcSignifiers = []string{
	"KC", "Knowledge Check", "Assessment", "Quiz", "Practice Exam",
}

var activitySignifiers = []string{
	"Activity", "Fact Finding", "Cafe Activity", "Troubleshoot",
}

func containsAny(title string, signifiers []string) bool {
	for _, s := range signifiers {
		if strings.Contains(title, s) {
			return true
		}
	}
	return false
}

// Classify derives the type flags from a title. The rules run in a fixed
// order: the activity flag is suppressed when any of the four preceding flags
// matched, keeping the five categories close to mutually exclusive. Flags 1-4
// may legitimately overlap.
func Classify(title string) (isLab, isKC, isExitTicket, isDemonstration, isActivity bool) {
	isKC = containsAny(title, kcSignifiers)

	isLab = containsAny(title, labCodes) ||
		strings.Contains(title, "Lab") ||
		strings.Contains(title, "Exercise") ||
		(strings.Contains(title, "Challenge") && !isKC)

	isExitTicket = strings.Contains(title, "Exit Ticket")

	isDemonstration = strings.Contains(title, "Demonstration") || strings.Contains(title, "Demo")

	isActivity = containsAny(title, activitySignifiers) &&
		!isLab && !isKC && !isExitTicket && !isDemonstration

	return
}

func newModule(id int, title, category string) Module {
	isLab, isKC, isExitTicket, isDemonstration, isActivity := Classify(title)
	return Module{
		ID:              id,
		Title:           title,
		Category:        category,
		IsKC:            isKC,
		IsLab:           isLab,
		IsExitTicket:    isExitTicket,
		IsDemonstration: isDemonstration,
		IsActivity:      isActivity,
	}
}

// BuildCatalog produces the full ordered module list. Deterministic: the same
// table always yields the same ids. Topics that signal a knowledge check or a
// lab/demonstration also generate a companion assessment module directly after
// the base entry, as the source curriculum did.
func BuildCatalog() []Module {
	var modules []Module
	moduleID := 1

	for _, block := range courseStructure {
		for _, topic := range block.Topics {
			modules = append(modules, newModule(moduleID, topic, block.Category))
			moduleID++

			if strings.Contains(topic, "KC") || strings.Contains(topic, "Knowledge Check") {
				modules = append(modules, newModule(moduleID, topic+" - Knowledge Check", block.Category))
				moduleID++
			}

			if strings.Contains(topic, "Lab") || strings.Contains(topic, "Demonstration") {
				modules = append(modules, newModule(moduleID, topic+" - Lab", block.Category))
				moduleID++
			}
		}
	}

	return modules
}

// Categories returns the category names in catalog order.
func Categories() []string {
	names := make([]string, 0, len(courseStructure))
	for _, block := range courseStructure {
		names = append(names, block.Category)
	}
	return names
}
