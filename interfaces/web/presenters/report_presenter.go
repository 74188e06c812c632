package presenters

import (
	"spgovern/domain/governance"
)

// MemberVM is one resolved group member row.
type MemberVM struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	UserPrincipalName string `json:"userPrincipalName"`
	Mail              string `json:"mail,omitempty"`
}

// ReportGroupVM is one governance group under an audited folder.
type ReportGroupVM struct {
	Name    string     `json:"name"`
	Role    string     `json:"role"`
	Members []MemberVM `json:"members"`
}

// ReportEntryVM is one report row.
type ReportEntryVM struct {
	FolderPath string          `json:"folderPath"`
	FolderName string          `json:"folderName"`
	Groups     []ReportGroupVM `json:"groups"`
}

// ReportVM is the full audit report response.
type ReportVM struct {
	Entries      []ReportEntryVM `json:"entries"`
	FolderCount  int             `json:"folderCount"`
	GroupCount   int             `json:"groupCount"`
	MemberTotals int             `json:"memberTotals"`
}

// ReportPresenter converts audit entries into the report view model.
type ReportPresenter struct{}

// NewReportPresenter creates a report presenter.
func NewReportPresenter() *ReportPresenter {
	return &ReportPresenter{}
}

// FormatReport converts entries and computes summary counts.
func (p *ReportPresenter) FormatReport(entries []governance.AuditEntry) *ReportVM {
	vm := &ReportVM{Entries: make([]ReportEntryVM, 0, len(entries))}
	for _, entry := range entries {
		entryVM := ReportEntryVM{
			FolderPath: entry.FolderPath,
			FolderName: entry.FolderName,
			Groups:     make([]ReportGroupVM, 0, len(entry.Groups)),
		}
		for _, group := range entry.Groups {
			groupVM := ReportGroupVM{
				Name:    group.Name,
				Role:    group.Role,
				Members: make([]MemberVM, 0, len(group.Members)),
			}
			for _, member := range group.Members {
				groupVM.Members = append(groupVM.Members, MemberVM{
					ID:                member.ID,
					DisplayName:       member.DisplayName,
					UserPrincipalName: member.UserPrincipalName,
					Mail:              member.Mail,
				})
			}
			vm.MemberTotals += len(groupVM.Members)
			entryVM.Groups = append(entryVM.Groups, groupVM)
		}
		vm.GroupCount += len(entryVM.Groups)
		vm.Entries = append(vm.Entries, entryVM)
	}
	vm.FolderCount = len(vm.Entries)
	return vm
}
