package i18n

// DefaultMessages are the UI strings of the class hub.
var DefaultMessages = map[Language]map[string]string{
	English: {
		"welcome":           "Welcome",
		"overview":          "Home",
		"calendar":          "Exams & Events",
		"subjects":          "Curriculum",
		"classlist":         "Students",
		"timetable":         "Class Schedule",
		"management":        "Control Center",
		"dev":               "Dev Tools",
		"logout":            "Exit",
		"login":             "Login",
		"register":          "Join",
		"email":             "Email",
		"password":          "Password",
		"name":              "Full Name",
		"secret":            "Dev Key",
		"studentId":         "Student ID",
		"exam":              "Exam",
		"homework":          "Homework",
		"event":             "Event",
		"due":               "Deadline",
		"add":               "Create",
		"save":              "Save",
		"delete":            "Delete",
		"edit":              "Modify",
		"cancel":            "Cancel",
		"notes":             "Notes",
		"resources":         "Materials",
		"today":             "Today",
		"no_items":          "No tasks",
		"time":              "Time",
		"room":              "Room",
		"location":          "Location",
		"monday":            "Monday",
		"tuesday":           "Tuesday",
		"wednesday":         "Wednesday",
		"thursday":          "Thursday",
		"friday":            "Friday",
		"saturday":          "Saturday",
		"placeholder_title": "Enter title...",
		"placeholder_notes": "Add description...",
		"upload_res":        "Attach Resources",
		"time_info":         "Schedule Info",
	},
	French: {
		"welcome":           "Bienvenue",
		"overview":          "Accueil",
		"calendar":          "Calendrier",
		"subjects":          "Matières",
		"classlist":         "Étudiants",
		"timetable":         "Emploi du Temps",
		"management":        "Gestion",
		"dev":               "Console Dev",
		"logout":            "Sortie",
		"login":             "Connexion",
		"register":          "Inscription",
		"email":             "Email",
		"password":          "Mot de passe",
		"name":              "Nom Complet",
		"secret":            "Clé Dev",
		"studentId":         "ID Étudiant",
		"exam":              "Examen",
		"homework":          "Devoir",
		"event":             "Événement",
		"due":               "Échéance",
		"add":               "Ajouter",
		"save":              "Enregistrer",
		"delete":            "Supprimer",
		"edit":              "Modifier",
		"cancel":            "Annuler",
		"notes":             "Notes",
		"resources":         "Ressources",
		"today":             "Aujourd'hui",
		"no_items":          "Aucune tâche",
		"time":              "Heure",
		"room":              "Salle",
		"location":          "Lieu",
		"monday":            "Lundi",
		"tuesday":           "Mardi",
		"wednesday":         "Mercredi",
		"thursday":          "Jeudi",
		"friday":            "Vendredi",
		"saturday":          "Samedi",
		"placeholder_title": "Titre...",
		"placeholder_notes": "Description...",
		"upload_res":        "Ajouter Ressources",
		"time_info":         "Horaire",
	},
	Arabic: {
		"welcome":           "مرحباً",
		"overview":          "الرئيسية",
		"calendar":          "الامتحانات",
		"subjects":          "المواد",
		"classlist":         "الطلاب",
		"timetable":         "استعمال الزمن",
		"management":        "التسيير",
		"dev":               "المطور",
		"logout":            "خروج",
		"login":             "دخول",
		"register":          "انضمام",
		"email":             "البريد",
		"password":          "كلمة السر",
		"name":              "الاسم الكامل",
		"secret":            "رمز المطور",
		"studentId":         "رقم الطالب",
		"exam":              "امتحان",
		"homework":          "واجب",
		"event":             "حدث",
		"due":               "الموعد",
		"add":               "إضافة",
		"save":              "حفظ",
		"delete":            "حذف",
		"edit":              "تعديل",
		"cancel":            "إلغاء",
		"notes":             "ملاحظات",
		"resources":         "موارد",
		"today":             "اليوم",
		"no_items":          "لا يوجد مهام",
		"time":              "الوقت",
		"room":              "القاعة",
		"location":          "المكان",
		"monday":            "الاثنين",
		"tuesday":           "الثلاثاء",
		"wednesday":         "الأربعاء",
		"thursday":          "الخميس",
		"friday":            "الجمعة",
		"saturday":          "السبت",
		"placeholder_title": "العنوان...",
		"placeholder_notes": "ملاحظات إضافية...",
		"upload_res":        "إرفاق موارد",
		"time_info":         "معلومات الوقت",
	},
}
