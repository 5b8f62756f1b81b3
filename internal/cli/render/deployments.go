package render

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/exactly/liquidator-deploy/internal/domain/models"
	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Color styles for table format
var (
	nsBg               = color.BgYellow
	chainBg            = color.BgCyan
	nsHeader           = color.New(nsBg, color.FgBlack)
	nsHeaderBold       = color.New(nsBg, color.FgBlack, color.Bold)
	chainHeader        = color.New(chainBg, color.FgBlack)
	chainHeaderBold    = color.New(chainBg, color.FgBlack, color.Bold)
	addressStyle       = color.New(color.FgWhite)
	timestampStyle     = color.New(color.Faint)
	tagsStyle          = color.New(color.FgCyan)
	sectionHeaderStyle = color.New(color.Bold, color.FgHiWhite)
	deployedStyle      = color.New(color.FgGreen, color.Bold)
	registeredStyle    = color.New(color.FgBlue, color.Bold)
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[mGKHF]`)

type TableData [][]string

// DeploymentsRenderer renders deployment lists as formatted tables with tree-style layout
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{
		out: out,
	}
}

// RenderDeploymentList renders deployments in the tree-style format
func (r *DeploymentsRenderer) RenderDeploymentList(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	r.displayTableFormat(result.Deployments)
	return nil
}

// chainGroup holds the deployments of one chain split by source
type chainGroup struct {
	chainID    uint64
	deployed   []*models.Deployment
	registered []*models.Deployment
}

func groupDeployments(deployments []*models.Deployment) (map[string][]*chainGroup, []string) {
	byNamespace := make(map[string]map[uint64]*chainGroup)
	for _, dep := range deployments {
		if byNamespace[dep.Namespace] == nil {
			byNamespace[dep.Namespace] = make(map[uint64]*chainGroup)
		}
		group, ok := byNamespace[dep.Namespace][dep.ChainID]
		if !ok {
			group = &chainGroup{chainID: dep.ChainID}
			byNamespace[dep.Namespace][dep.ChainID] = group
		}
		if dep.IsRegistered() {
			group.registered = append(group.registered, dep)
		} else {
			group.deployed = append(group.deployed, dep)
		}
	}

	namespaces := make([]string, 0, len(byNamespace))
	groups := make(map[string][]*chainGroup, len(byNamespace))
	for ns, chains := range byNamespace {
		namespaces = append(namespaces, ns)
		for _, group := range chains {
			groups[ns] = append(groups[ns], group)
		}
		sort.Slice(groups[ns], func(i, j int) bool { return groups[ns][i].chainID < groups[ns][j].chainID })
	}
	sort.Strings(namespaces)
	return groups, namespaces
}

// displayTableFormat shows deployments in table format
func (r *DeploymentsRenderer) displayTableFormat(deployments []*models.Deployment) {
	groups, namespaces := groupDeployments(deployments)

	// Build all tables for consistent column width calculation
	var allTables []TableData
	for _, ns := range namespaces {
		for _, group := range groups[ns] {
			if len(group.deployed) > 0 {
				allTables = append(allTables, r.buildDeploymentTable(group.deployed))
			}
			if len(group.registered) > 0 {
				allTables = append(allTables, r.buildDeploymentTable(group.registered))
			}
		}
	}
	globalColumnWidths := calculateTableColumnWidths(allTables)

	for _, ns := range namespaces {
		nsLabel := fmt.Sprintf("%-12s", "namespace:")
		nsValue := fmt.Sprintf("%-30s", strings.ToUpper(ns))
		fmt.Fprintln(r.out, nsHeader.Sprintf("   ◎ %s %s", nsLabel, nsHeaderBold.Sprint(nsValue)))

		chains := groups[ns]
		for netIdx, group := range chains {
			isLastNetwork := netIdx == len(chains)-1
			treePrefix := "├─"
			continuationPrefix := "│ "
			if isLastNetwork {
				treePrefix = "└─"
				continuationPrefix = "  "
			}

			chainLabel := fmt.Sprintf("%-12s", "chain:")
			chainValue := fmt.Sprintf("%-30s", fmt.Sprintf("%d", group.chainID))
			fmt.Fprintf(r.out, "%s%s%s\n",
				treePrefix,
				chainHeader.Sprintf(" ⛓ %s ", chainLabel),
				chainHeaderBold.Sprint(chainValue))
			fmt.Fprintln(r.out, continuationPrefix)

			sections := []struct {
				title string
				deps  []*models.Deployment
			}{
				{"DEPLOYED", group.deployed},
				{"REGISTERED", group.registered},
			}
			displayed := 0
			for _, section := range sections {
				if len(section.deps) == 0 {
					continue
				}
				if displayed > 0 {
					fmt.Fprintln(r.out, continuationPrefix)
				}
				fmt.Fprintf(r.out, "%s%s\n", continuationPrefix, sectionHeaderStyle.Sprint(section.title))
				fmt.Fprint(r.out, renderTableWithWidths(r.buildDeploymentTable(section.deps), globalColumnWidths, continuationPrefix))
				fmt.Fprintln(r.out)
				displayed++
			}

			if !isLastNetwork {
				fmt.Fprintln(r.out, continuationPrefix)
			} else {
				fmt.Fprintln(r.out)
			}
		}
	}

	fmt.Fprintf(r.out, "Total deployments: %d\n", len(deployments))
}

// buildDeploymentTable creates a TableData for a list of deployments
func (r *DeploymentsRenderer) buildDeploymentTable(deployments []*models.Deployment) TableData {
	sorted := append([]*models.Deployment(nil), deployments...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ContractName == sorted[j].ContractName {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ContractName < sorted[j].ContractName
	})

	tableData := make(TableData, 0, len(sorted))
	for _, deployment := range sorted {
		contractCell := r.getColoredDisplayName(deployment)
		if extra := extraTags(deployment); len(extra) > 0 {
			contractCell += " " + tagsStyle.Sprintf("(%s)", strings.Join(extra, ", "))
		}

		tableData = append(tableData, []string{
			contractCell,
			addressStyle.Sprint(deployment.Address),
			timestampStyle.Sprint(deployment.CreatedAt.Format("2006-01-02 15:04:05")),
		})
	}
	return tableData
}

// extraTags returns the tags other than the contract name itself
func extraTags(dep *models.Deployment) []string {
	var out []string
	for _, tag := range dep.Tags {
		if tag != dep.ContractName {
			out = append(out, tag)
		}
	}
	return out
}

// getColoredDisplayName returns a colored display name for deployment
func (r *DeploymentsRenderer) getColoredDisplayName(dep *models.Deployment) string {
	if dep.IsRegistered() {
		return registeredStyle.Sprint(dep.ContractName)
	}
	return deployedStyle.Sprint(dep.ContractName)
}

// renderTableWithWidths renders a table with specific column widths
func renderTableWithWidths(tableData TableData, columnWidths []int, continuationPrefix string) string {
	if len(tableData) == 0 {
		return ""
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}

	colConfigs := make([]table.ColumnConfig, len(columnWidths))
	for i, width := range columnWidths {
		if i == 0 {
			width += 2 + len([]rune(continuationPrefix))
		}
		colConfigs[i] = table.ColumnConfig{
			Number:   i + 1,
			Align:    text.AlignLeft,
			WidthMin: width,
			WidthMax: width,
		}
	}
	t.SetColumnConfigs(colConfigs)

	for _, row := range tableData {
		tableRow := make(table.Row, len(row))
		for i, cell := range row {
			if i == 0 {
				tableRow[i] = continuationPrefix + cell
			} else {
				tableRow[i] = cell
			}
		}
		t.AppendRow(tableRow)
	}

	return t.Render()
}

// stripAnsiCodes removes ANSI escape sequences from a string
func stripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// calculateTableColumnWidths calculates column widths for multiple tables
func calculateTableColumnWidths(tables []TableData) []int {
	if len(tables) == 0 {
		return nil
	}

	maxCols := 0
	for _, table := range tables {
		for _, row := range table {
			if len(row) > maxCols {
				maxCols = len(row)
			}
		}
	}

	widths := make([]int, maxCols)
	for _, table := range tables {
		for _, row := range table {
			for colIdx, cell := range row {
				// Strip ANSI codes for width calculation
				cellWidth := len([]rune(stripAnsiCodes(cell)))
				if cellWidth > widths[colIdx] {
					widths[colIdx] = cellWidth
				}
			}
		}
	}

	return widths
}
