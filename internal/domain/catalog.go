package domain

// Services is the catalog of household services offered on the platform.
var Services = []string{
	"تنظيف المنزل",
	"طبخ",
	"غسيل الملابس",
	"رعاية الأطفال",
	"رعاية المسنين",
	"تنظيف السجاد",
	"تنظيف النوافذ",
	"تنظيم المنزل",
	"غسيل الأطباق",
	"تنظيف المطبخ",
	"تنظيف الحمام",
	"كوي الملابس",
}

// DefaultWorkerServices is offered on the booking form when a worker lists none.
var DefaultWorkerServices = Services[:8]

// TimeSlots are the bookable start times, on the hour from 08:00 to 20:00.
var TimeSlots = []string{
	"08:00", "09:00", "10:00", "11:00", "12:00", "13:00", "14:00",
	"15:00", "16:00", "17:00", "18:00", "19:00", "20:00",
}

// Durations are the bookable lengths in hours.
var Durations = []int{1, 2, 3, 4, 5, 6, 8}

var IraqiCities = []string{
	"بغداد", "البصرة", "الموصل", "أربيل", "السليمانية", "دهوك", "كركوك", "النجف",
	"كربلاء", "بابل", "الديوانية", "الناصرية", "العمارة", "الرمادي", "تكريت", "سامراء",
	"بعقوبة", "الحلة", "الكوت", "الزبير", "أبو الخصيب", "القرنة", "الشطرة", "الرفاعي",
	"الحي", "القلعة", "الخالص", "بلد", "دجيل", "المدائن",
}

func IsTimeSlot(v string) bool {
	for _, s := range TimeSlots {
		if s == v {
			return true
		}
	}
	return false
}

func IsDuration(v int) bool {
	for _, d := range Durations {
		if d == v {
			return true
		}
	}
	return false
}
