package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/classreader/classfile"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5A3FC0")).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browserTab int

const (
	tabPool browserTab = iota
	tabMethods
)

var tabTitles = [...]string{"Constant pool", "Methods"}

type browserModel struct {
	filename string
	header   string
	tables   [2]table.Model
	active   browserTab
}

func runInteractive(filename string, cf *classfile.ClassFile) error {
	_, err := tea.NewProgram(newBrowserModel(filename, cf), tea.WithAltScreen()).Run()
	return err
}

func newBrowserModel(filename string, cf *classfile.ClassFile) *browserModel {
	s := cf.Summary()
	m := &browserModel{
		filename: filename,
		header: fmt.Sprintf("%s %s  v%d.%d  pool %d  methods %d",
			classKind(cf.AccessFlags), displayName(cf), s.MajorVersion, s.MinorVersion, s.PoolCount, s.MethodCount),
	}

	styles := table.DefaultStyles()
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4"))

	m.tables[tabPool] = table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 6},
			{Title: "Tag", Width: 20},
			{Title: "Value", Width: 60},
		}),
		table.WithRows(poolRows(cf.Pool)),
		table.WithFocused(true),
		table.WithHeight(20),
		table.WithStyles(styles),
	)
	m.tables[tabMethods] = table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Flags", Width: 24},
			{Title: "Name", Width: 24},
			{Title: "Descriptor", Width: 36},
			{Title: "Code", Width: 16},
		}),
		table.WithRows(methodRows(cf)),
		table.WithHeight(20),
		table.WithStyles(styles),
	)
	return m
}

func displayName(cf *classfile.ClassFile) string {
	if name := cf.Name(); name != "" {
		return name
	}
	return "<unnamed>"
}

func classKind(f classfile.AccessFlags) string {
	switch {
	case f.IsInterface():
		return "interface"
	case f.IsAbstract():
		return "abstract class"
	}
	return "class"
}

func poolRows(pool classfile.Pool) []table.Row {
	var rows []table.Row
	for i, e := range pool {
		if e == nil {
			continue
		}
		rows = append(rows, table.Row{strconv.Itoa(i), e.Tag().String(), describeEntry(pool, e)})
	}
	return rows
}

func methodRows(cf *classfile.ClassFile) []table.Row {
	rows := make([]table.Row, 0, len(cf.Methods))
	for i := range cf.Methods {
		m := &cf.Methods[i]
		name, desc := cf.MethodName(m)
		code := "-"
		switch {
		case m.Code != nil:
			code = fmt.Sprintf("%d bytes s%d/l%d", m.Code.CodeLength, m.Code.MaxStack, m.Code.MaxLocals)
		case m.AccessFlags.IsNative():
			code = "native"
		case m.AccessFlags.IsAbstract():
			code = "abstract"
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i),
			strings.Join(m.AccessFlags.MethodModifiers(), " "),
			name,
			desc,
			code,
		})
	}
	return rows
}

// describeEntry renders one pool entry, resolving indices where it can.
func describeEntry(pool classfile.Pool, e classfile.PoolEntry) string {
	ref := func(idx uint16) string {
		if s, ok := pool.Utf8(idx); ok {
			return fmt.Sprintf("#%d %q", idx, s)
		}
		if s, ok := pool.ClassName(idx); ok {
			return fmt.Sprintf("#%d %s", idx, s)
		}
		return fmt.Sprintf("#%d", idx)
	}

	switch v := e.(type) {
	case *classfile.Utf8:
		return strconv.Quote(v.String())
	case *classfile.ClassRef:
		return ref(v.NameIndex)
	case *classfile.StringRef:
		return ref(v.StringIndex)
	case *classfile.Numeric:
		return fmt.Sprintf("%v (0x%X)", v.Value(), v.Raw())
	case *classfile.MemberRef:
		return fmt.Sprintf("class %s, name_and_type #%d", ref(v.ClassIndex), v.NameAndTypeIndex)
	case *classfile.NameAndType:
		return fmt.Sprintf("%s : %s", ref(v.NameIndex), ref(v.DescriptorIndex))
	case *classfile.Unknown:
		return fmt.Sprintf("unrecognized tag %d", v.RawTag)
	}
	return ""
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "tab", "shift+tab":
			m.tables[m.active].Blur()
			m.active = (m.active + 1) % browserTab(len(m.tables))
			m.tables[m.active].Focus()
			return m, nil
		}
	case tea.WindowSizeMsg:
		h := msg.Height - 6
		if h < 3 {
			h = 3
		}
		for i := range m.tables {
			m.tables[i].SetHeight(h)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.tables[m.active], cmd = m.tables[m.active].Update(msg)
	return m, cmd
}

func (m *browserModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.filename))
	b.WriteString(" ")
	b.WriteString(m.header)
	b.WriteString("\n\n")

	for i, title := range tabTitles {
		if browserTab(i) == m.active {
			b.WriteString(activeTabStyle.Render(title))
		} else {
			b.WriteString(tabStyle.Render(title))
		}
	}
	b.WriteString("\n")
	b.WriteString(m.tables[m.active].View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move • tab switch • q quit"))
	return b.String()
}
