package entity

import "math/rand/v2"

type JobType uint8

const (
	JobDoctor JobType = iota
	JobProgrammer
	JobClerk
	JobPoliceOfficer
	JobFireFighter
	JobPublicServant
	JobChef
	JobTeacher
	JobStudent
)

// JobTypeCount 是职业种类数。
const JobTypeCount = int(JobStudent) + 1

var jobNames = [...]string{
	"doctor", "programmer", "clerk", "police_officer", "fire_fighter",
	"public_servant", "chef", "teacher", "student",
}

// 上班时段 [start, end)，单位小时
var workHours = [...][2]uint32{
	JobDoctor:        {9, 17},
	JobProgrammer:    {12, 22},
	JobClerk:         {7, 18},
	JobPoliceOfficer: {6, 16},
	JobFireFighter:   {11, 21},
	JobPublicServant: {11, 23},
	JobChef:          {14, 23},
	JobTeacher:       {8, 17},
	JobStudent:       {8, 16},
}

func (j JobType) String() string {
	if int(j) < len(jobNames) {
		return jobNames[j]
	}
	return "unknown"
}

func (j JobType) WorkHours() (start, end uint32) {
	if int(j) >= len(workHours) {
		return 0, 0
	}
	h := workHours[j]
	return h[0], h[1]
}

// OnDuty 报告 hour 是否落在上班时段内。
func (j JobType) OnDuty(hour uint32) bool {
	start, end := j.WorkHours()
	return hour >= start && hour < end
}

func RandomJobType(r *rand.Rand) JobType {
	return JobType(r.IntN(JobTypeCount))
}

// Job 的 Location 为 nil 表示地图上没有这类工作场所，这个人永远不会去上班。
type Job struct {
	Type     JobType   `msgpack:"type"`
	Location *Position `msgpack:"loc"`
}
