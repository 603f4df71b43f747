package ast

type (
	// главные сущности
	FileID  uint32
	LayerID uint32
	// подсущности
	PayloadID  uint32
	LifetimeID uint32
)

const (
	NoFileID     FileID     = 0
	NoLayerID    LayerID    = 0
	NoPayloadID  PayloadID  = 0
	NoLifetimeID LifetimeID = 0
)

func (id FileID) IsValid() bool     { return id != NoFileID }
func (id LayerID) IsValid() bool    { return id != NoLayerID }
func (id PayloadID) IsValid() bool  { return id != NoPayloadID }
func (id LifetimeID) IsValid() bool { return id != NoLifetimeID }
