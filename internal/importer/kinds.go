package importer

// EntityKind is the closed set of entity tags the import pipeline knows
// about. The tag is stored as text on custom_fields rows, but callers can
// only hand the sidecar one of these.
type EntityKind string

const (
	KindInstance         EntityKind = "instance"
	KindDnoDetail        EntityKind = "dnoDetail"
	KindProduct          EntityKind = "product"
	KindTeam             EntityKind = "team"
	KindUser             EntityKind = "user"
	KindStatus           EntityKind = "status"
	KindRegion           EntityKind = "region"
	KindAddress          EntityKind = "address"
	KindClient           EntityKind = "client"
	KindSite             EntityKind = "site"
	KindProject          EntityKind = "project"
	KindProjectProcess   EntityKind = "projectProcess"
	KindPlot             EntityKind = "plot"
	KindPlotSpec         EntityKind = "plotSpec"
	KindPlotInstall      EntityKind = "plotInstall"
	KindElevationSpec    EntityKind = "elevationSpec"
	KindElevationInstall EntityKind = "elevationInstall"
	KindJob              EntityKind = "job"
	KindSlot             EntityKind = "slot"
)

var knownKinds = map[EntityKind]struct{}{
	KindInstance: {}, KindDnoDetail: {}, KindProduct: {}, KindTeam: {},
	KindUser: {}, KindStatus: {}, KindRegion: {}, KindAddress: {},
	KindClient: {}, KindSite: {}, KindProject: {}, KindProjectProcess: {},
	KindPlot: {}, KindPlotSpec: {}, KindPlotInstall: {},
	KindElevationSpec: {}, KindElevationInstall: {}, KindJob: {}, KindSlot: {},
}

// KnownKind reports whether k is a member of the closed enumeration.
func KnownKind(k EntityKind) bool {
	_, ok := knownKinds[k]
	return ok
}

// MergePolicy decides how an update treats incoming fields.
type MergePolicy int

const (
	// MergeIncomingWins overwrites every provided field unconditionally.
	MergeIncomingWins MergePolicy = iota
	// MergePreserveBlank overwrites a field only when the incoming value is
	// non-blank; blank incoming values keep whatever is stored.
	MergePreserveBlank
)
