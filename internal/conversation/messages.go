package conversation

// User-facing texts, in Malay. The bot serves a district office in Sabah;
// do not translate these.
const (
	msgWelcome = "Selamat datang ke Sistem Temu Janji Pejabat Daerah Keningau! 🏛️\n" +
		"Taip /book untuk menempah janji temu."

	msgChooseOfficer     = "Sila pilih pegawai yang ingin anda temui:"
	msgInvalidOfficer    = "Sila pilih nombor pegawai dari senarai."
	msgAskName           = "Masukkan nama penuh anda:"
	msgAskPhone          = "Masukkan nombor telefon anda (cth: 0134567890):"
	msgAskEmail          = "Masukkan alamat emel anda:"
	msgAskPurpose        = "Nyatakan tujuan janji temu:"
	msgAskDate           = "Masukkan tarikh pilihan (DD/MM/YYYY):"
	msgInvalidDate       = "⚠️ Tarikh tidak sah! Sila masukkan tarikh akan datang (DD/MM/YYYY)."
	msgWeekend           = "⛔ Tempahan tidak boleh dibuat pada hujung minggu. Sila pilih tarikh bekerja."
	msgNoSlots           = "⛔ Tiada slot tersedia pada tarikh ini. Sila cuba tarikh lain:"
	msgChooseTime        = "⏰ Sila pilih masa temu janji:"
	msgInvalidTime       = "⛔ Masa tidak sah. Sila pilih masa dari senarai yang diberikan."
	msgSlotTaken         = "⛔ Slot ini telah ditempah. Sila pilih masa lain."
	msgSessionCancelled  = "⚠️ Sesi dibatalkan. Sila cuba lagi dengan /book"
	msgCancelled         = "Tempahan dibatalkan."
	msgNothingToCancel   = "Tiada tempahan sedang dibuat. Taip /book untuk mula."
	msgSaveFailed        = "⚠️ Maaf, tempahan tidak dapat disimpan buat masa ini. Sila cuba sebentar lagi."
	msgIdleHint          = "Taip /book untuk menempah janji temu, atau /cancel untuk batal."
	msgConfirmedTemplate = "✅ Tempahan berjaya!\nTarikh: %s\nMasa: %s\nPegawai: %s\nRujukan: %s"
)
