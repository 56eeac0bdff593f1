// Package icons maps the icon names stored on layers, categories and layout
// columns to renderers. The table is fixed at compile time; names outside it
// (emoji, free text) render as themselves.
package icons

import (
	"sort"
	"strings"
)

// ID is a known icon name.
type ID string

// RenderFunc renders an icon for a text terminal.
type RenderFunc func() string

const (
	Activity      ID = "Activity"
	Archive       ID = "Archive"
	Award         ID = "Award"
	BarChart      ID = "BarChart"
	Box           ID = "Box"
	Brain         ID = "Brain"
	Briefcase     ID = "Briefcase"
	Bug           ID = "Bug"
	Calendar      ID = "Calendar"
	CheckCircle   ID = "CheckCircle"
	Cloud         ID = "Cloud"
	Code          ID = "Code"
	Coffee        ID = "Coffee"
	Command       ID = "Command"
	Compass       ID = "Compass"
	Container     ID = "Container"
	Cpu           ID = "Cpu"
	Database      ID = "Database"
	Disc          ID = "Disc"
	Edit          ID = "Edit"
	Eye           ID = "Eye"
	FileCode      ID = "FileCode"
	Filter        ID = "Filter"
	Flag          ID = "Flag"
	Folder        ID = "Folder"
	Globe         ID = "Globe"
	Grid          ID = "Grid"
	HardDrive     ID = "HardDrive"
	Hash          ID = "Hash"
	Heart         ID = "Heart"
	Home          ID = "Home"
	Image         ID = "Image"
	Inbox         ID = "Inbox"
	Info          ID = "Info"
	Key           ID = "Key"
	Languages     ID = "Languages"
	Layers        ID = "Layers"
	Layout        ID = "Layout"
	LifeBuoy      ID = "LifeBuoy"
	Link          ID = "Link"
	List          ID = "List"
	Lock          ID = "Lock"
	Map           ID = "Map"
	MessageCircle ID = "MessageCircle"
	Monitor       ID = "Monitor"
	Moon          ID = "Moon"
	MousePointer  ID = "MousePointer"
	Music         ID = "Music"
	Package       ID = "Package"
	PieChart      ID = "PieChart"
	Play          ID = "Play"
	Power         ID = "Power"
	Printer       ID = "Printer"
	Radio         ID = "Radio"
	RefreshCcw    ID = "RefreshCcw"
	Save          ID = "Save"
	Search        ID = "Search"
	Server        ID = "Server"
	Settings      ID = "Settings"
	Share         ID = "Share"
	Share2        ID = "Share2"
	Shield        ID = "Shield"
	ShoppingBag   ID = "ShoppingBag"
	Sidebar       ID = "Sidebar"
	Smartphone    ID = "Smartphone"
	Sparkles      ID = "Sparkles"
	Speaker       ID = "Speaker"
	Star          ID = "Star"
	Sun           ID = "Sun"
	Table         ID = "Table"
	Tag           ID = "Tag"
	Target        ID = "Target"
	Terminal      ID = "Terminal"
	Tool          ID = "Tool"
	Trash         ID = "Trash"
	TrendingUp    ID = "TrendingUp"
	Truck         ID = "Truck"
	Tv            ID = "Tv"
	User          ID = "User"
	Users         ID = "Users"
	Video         ID = "Video"
	Watch         ID = "Watch"
	Wifi          ID = "Wifi"
	Zap           ID = "Zap"
)

func glyph(s string) RenderFunc {
	return func() string { return s }
}

var table = map[ID]RenderFunc{
	Activity:      glyph("📈"),
	Archive:       glyph("🗄"),
	Award:         glyph("🏅"),
	BarChart:      glyph("📊"),
	Box:           glyph("📦"),
	Brain:         glyph("🧠"),
	Briefcase:     glyph("💼"),
	Bug:           glyph("🐛"),
	Calendar:      glyph("📅"),
	CheckCircle:   glyph("✅"),
	Cloud:         glyph("☁"),
	Code:          glyph("⌨"),
	Coffee:        glyph("☕"),
	Command:       glyph("⌘"),
	Compass:       glyph("🧭"),
	Container:     glyph("🚢"),
	Cpu:           glyph("🔲"),
	Database:      glyph("🛢"),
	Disc:          glyph("💿"),
	Edit:          glyph("✏"),
	Eye:           glyph("👁"),
	FileCode:      glyph("📄"),
	Filter:        glyph("⏷"),
	Flag:          glyph("⚑"),
	Folder:        glyph("📁"),
	Globe:         glyph("🌐"),
	Grid:          glyph("▦"),
	HardDrive:     glyph("🖴"),
	Hash:          glyph("#"),
	Heart:         glyph("♥"),
	Home:          glyph("⌂"),
	Image:         glyph("🖼"),
	Inbox:         glyph("📥"),
	Info:          glyph("ℹ"),
	Key:           glyph("🔑"),
	Languages:     glyph("🔤"),
	Layers:        glyph("☰"),
	Layout:        glyph("▤"),
	LifeBuoy:      glyph("🛟"),
	Link:          glyph("🔗"),
	List:          glyph("≡"),
	Lock:          glyph("🔒"),
	Map:           glyph("🗺"),
	MessageCircle: glyph("💬"),
	Monitor:       glyph("🖥"),
	Moon:          glyph("☾"),
	MousePointer:  glyph("➚"),
	Music:         glyph("♪"),
	Package:       glyph("📦"),
	PieChart:      glyph("◔"),
	Play:          glyph("▶"),
	Power:         glyph("⏻"),
	Printer:       glyph("🖨"),
	Radio:         glyph("📻"),
	RefreshCcw:    glyph("⟲"),
	Save:          glyph("💾"),
	Search:        glyph("🔍"),
	Server:        glyph("🖧"),
	Settings:      glyph("⚙"),
	Share:         glyph("⇪"),
	Share2:        glyph("⇄"),
	Shield:        glyph("🛡"),
	ShoppingBag:   glyph("🛍"),
	Sidebar:       glyph("▥"),
	Smartphone:    glyph("📱"),
	Sparkles:      glyph("✨"),
	Speaker:       glyph("🔈"),
	Star:          glyph("★"),
	Sun:           glyph("☀"),
	Table:         glyph("▦"),
	Tag:           glyph("🏷"),
	Target:        glyph("◎"),
	Terminal:      glyph("❯"),
	Tool:          glyph("🔧"),
	Trash:         glyph("🗑"),
	TrendingUp:    glyph("↗"),
	Truck:         glyph("🚚"),
	Tv:            glyph("📺"),
	User:          glyph("👤"),
	Users:         glyph("👥"),
	Video:         glyph("🎞"),
	Watch:         glyph("⌚"),
	Wifi:          glyph("📶"),
	Zap:           glyph("⚡"),
}

// aliases are the short lowercase names older catalogue rows carry.
var aliases = map[string]ID{
	"brain":     Brain,
	"cloud":     Cloud,
	"code":      Code,
	"container": Container,
	"data":      BarChart,
	"db":        Database,
	"eye":       Eye,
	"languages": Languages,
	"lock":      Lock,
	"mobile":    Smartphone,
	"mq":        Share2,
	"sparkles":  Sparkles,
	"storage":   HardDrive,
	"terminal":  Terminal,
	"tool":      Tool,
	"vis":       PieChart,
}

// Lookup resolves a stored icon name to a known ID. Exact names win over the
// lowercase aliases.
func Lookup(name string) (ID, bool) {
	name = strings.TrimSpace(name)
	if _, ok := table[ID(name)]; ok {
		return ID(name), true
	}
	id, ok := aliases[strings.ToLower(name)]
	return id, ok
}

// Render returns the glyph for name, or name itself when it is not a known
// icon (emoji layer icons are stored verbatim).
func Render(name string) string {
	if id, ok := Lookup(name); ok {
		return table[id]()
	}
	return strings.TrimSpace(name)
}

// Known lists every ID in the table, sorted.
func Known() []ID {
	ids := make([]ID, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
