package setup

// State is a step of the provisioning progression.
type State int

// States are reached in this order. Only one of StateDatabaseExists and StateDatabaseCreated is reached.
const (
	StateNotConnected State = iota
	StateConnectedToAdminDB
	StateDatabaseExists
	StateDatabaseCreated
	StateSchemaAbsent
	StateSchemaInstalled
	StateSecretsPatched
	StateMigrationTriggered
)

var stateNames = map[State]string{
	StateNotConnected:       "not connected",
	StateConnectedToAdminDB: "connected to admin database",
	StateDatabaseExists:     "database exists",
	StateDatabaseCreated:    "database created",
	StateSchemaAbsent:       "schema absent",
	StateSchemaInstalled:    "schema installed",
	StateSecretsPatched:     "secrets patched",
	StateMigrationTriggered: "migration triggered",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}
