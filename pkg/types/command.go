package types

// CommandTag names one variant of Command. Subscriptions filter on sets of
// these tags (see internal/bus).
type CommandTag string

const (
	CommandTagPlay            CommandTag = "Play"
	CommandTagPause           CommandTag = "Pause"
	CommandTagNext            CommandTag = "Next"
	CommandTagLike            CommandTag = "Like"
	CommandTagRadio           CommandTag = "Radio"
	CommandTagPlayTrackForce  CommandTag = "PlayTrackForce"
	CommandTagPlayAlbumForce  CommandTag = "PlayAlbumForce"
	CommandTagPlayArtistForce CommandTag = "PlayArtistForce"
	CommandTagAddTracks       CommandTag = "AddTracks"
	CommandTagAddTracksForce  CommandTag = "AddTracksForce"
	CommandTagAddBufferedTracks CommandTag = "AddBufferedTracks"
	CommandTagShowScreen        CommandTag = "ShowScreen"
	CommandTagLoadCover         CommandTag = "LoadCover"
)

// Command is the closed set of pipeline actions a subscriber can receive
// off the bus. Each concrete type below implements it via an unexported
// marker method, the idiomatic Go stand-in for a Rust-style sum type.
type Command interface {
	Tag() CommandTag
	isCommand()
}

type cmdBase struct{}

func (cmdBase) isCommand() {}

type CommandPlay struct{ cmdBase }

func (CommandPlay) Tag() CommandTag { return CommandTagPlay }

type CommandPause struct{ cmdBase }

func (CommandPause) Tag() CommandTag { return CommandTagPause }

type CommandNext struct{ cmdBase }

func (CommandNext) Tag() CommandTag { return CommandTagNext }

type CommandLike struct {
	cmdBase
	TrackID string
}

func (CommandLike) Tag() CommandTag { return CommandTagLike }

type CommandRadio struct {
	cmdBase
	TrackID string
}

func (CommandRadio) Tag() CommandTag { return CommandTagRadio }

type CommandPlayTrackForce struct {
	cmdBase
	ID string
}

func (CommandPlayTrackForce) Tag() CommandTag { return CommandTagPlayTrackForce }

type CommandPlayAlbumForce struct {
	cmdBase
	ID string
}

func (CommandPlayAlbumForce) Tag() CommandTag { return CommandTagPlayAlbumForce }

type CommandPlayArtistForce struct {
	cmdBase
	ID string
}

func (CommandPlayArtistForce) Tag() CommandTag { return CommandTagPlayArtistForce }

type CommandAddTracks struct {
	cmdBase
	Tracks []Track
}

func (CommandAddTracks) Tag() CommandTag { return CommandTagAddTracks }

type CommandAddTracksForce struct {
	cmdBase
	Tracks []Track
}

func (CommandAddTracksForce) Tag() CommandTag { return CommandTagAddTracksForce }

type CommandAddBufferedTracks struct {
	cmdBase
	Tracks []BufferedTrack
}

func (CommandAddBufferedTracks) Tag() CommandTag { return CommandTagAddBufferedTracks }

type CommandShowScreen struct {
	cmdBase
	Path string
}

func (CommandShowScreen) Tag() CommandTag { return CommandTagShowScreen }

type CommandLoadCover struct {
	cmdBase
	URL string
}

func (CommandLoadCover) Tag() CommandTag { return CommandTagLoadCover }
