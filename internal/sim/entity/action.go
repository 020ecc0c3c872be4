package entity

type ActionKind uint8

const (
	ActionAtHome ActionKind = iota
	ActionWorking
	ActionShopping
	ActionWalking
	ActionPartying
	ActionLockdown
)

var actionNames = [...]string{"at_home", "working", "shopping", "walking", "partying", "lockdown"}

func (k ActionKind) String() string {
	if int(k) < len(actionNames) {
		return actionNames[k]
	}
	return "unknown"
}

// Action 是居民当前的行为状态，只在服务端存在，不下发给客户端。
//   - Shopping: Deadline 为离开商店的 tick
//   - Walking: Route 为剩余路径（不含当前位置），走完后切换到 Next
//   - Partying / Lockdown: Remaining 为剩余 tick
type Action struct {
	Kind      ActionKind
	Deadline  uint64
	Remaining uint32
	Route     []Position
	Next      *Action
}

func AtHome() Action {
	return Action{Kind: ActionAtHome}
}

func Working() Action {
	return Action{Kind: ActionWorking}
}

func Shopping(deadline uint64) Action {
	return Action{Kind: ActionShopping, Deadline: deadline}
}

func Walking(route []Position, next Action) Action {
	return Action{Kind: ActionWalking, Route: route, Next: &next}
}

func Partying(ticks uint32) Action {
	return Action{Kind: ActionPartying, Remaining: ticks}
}

func Lockdown(ticks uint32) Action {
	return Action{Kind: ActionLockdown, Remaining: ticks}
}

// Idle 在家或上班的人可以被临时召集。
func (a Action) Idle() bool {
	return a.Kind == ActionAtHome || a.Kind == ActionWorking
}

// Confined 报告居民是否处在封锁中，包括正在回家接受封锁的路上。
func (a Action) Confined() bool {
	switch a.Kind {
	case ActionLockdown:
		return true
	case ActionWalking:
		return a.Next != nil && a.Next.Kind == ActionLockdown
	}
	return false
}

// Destination 返回步行的终点；不在走路时 ok=false。
func (a Action) Destination() (Position, bool) {
	if a.Kind != ActionWalking || len(a.Route) == 0 {
		return Position{}, false
	}
	return a.Route[len(a.Route)-1], true
}
