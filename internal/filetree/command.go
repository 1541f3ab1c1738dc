package filetree

// Command is a request to bring the tree in line with a change that has
// already been applied on disk, or a pure view request.
type Command interface {
	// Name is a short stable identifier, used for logging and metrics.
	Name() string
	command()
}

type (
	Delete struct{ Path string }
	Add    struct {
		Path string
		Dir  bool
	}
	Rename struct{ Old, New string }
	Move   struct{ From, To string }
	// FilterFor narrows the projection to Paths; no paths clears the filter.
	FilterFor      struct{ Paths []string }
	GotoFile       struct{ Path string }
	RemoveSelected struct{}
	// AddFile creates a file named File in the directory at Loc.
	AddFile struct {
		Loc  Location
		File string
	}
	// AddDir creates a directory named Dir in the directory at Loc.
	AddDir struct {
		Loc Location
		Dir string
	}
)

func (Delete) Name() string         { return "delete" }
func (Add) Name() string            { return "add" }
func (Rename) Name() string         { return "rename" }
func (Move) Name() string           { return "move" }
func (FilterFor) Name() string      { return "filter" }
func (GotoFile) Name() string       { return "goto" }
func (RemoveSelected) Name() string { return "remove_selected" }
func (AddFile) Name() string        { return "add_file" }
func (AddDir) Name() string         { return "add_dir" }

func (Delete) command()         {}
func (Add) command()            {}
func (Rename) command()         {}
func (Move) command()           {}
func (FilterFor) command()      {}
func (GotoFile) command()       {}
func (RemoveSelected) command() {}
func (AddFile) command()        {}
func (AddDir) command()         {}
