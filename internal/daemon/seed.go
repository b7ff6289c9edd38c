package daemon

import (
	"gorm.io/gorm"

	"github.com/xanhenergy/xanhenergy-admin/internal/config"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/models"
)

func strptr(s string) *string { return &s }

// seed fills empty tables with demo content for a fresh installation.
// Tables already holding rows are left alone.
func seed(_ *config.Config, db *gorm.DB) {
	var count int64

	db.Model(&models.Post{}).Count(&count)
	if count == 0 {
		db.Create(&[]models.Post{
			{
				Title:     "Xu hướng năng lượng tái tạo 2024: Tương lai xanh của Việt Nam",
				Slug:      "xuhuong-nangluong-taitao-2024",
				Content:   "Năm 2024 đánh dấu một bước ngoặt quan trọng trong phát triển năng lượng tái tạo tại Việt Nam với nhiều chính sách mới và công nghệ tiên tiến...",
				Excerpt:   strptr("Năm 2024 đánh dấu một bước ngoặt quan trọng trong phát triển năng lượng tái tạo tại Việt Nam với nhiều chính sách mới và công nghệ tiên tiến."),
				Category:  "Xu hướng",
				Published: true,
			},
			{
				Title:     "Điện mặt trời nổi: Giải pháp mới cho đất nước",
				Slug:      "dien-mat-troi-noi-giai-phap-moi",
				Content:   "Khám phá tiềm năng của điện mặt trời nổi tại Việt Nam và những lợi ích to lớn của công nghệ này...",
				Excerpt:   strptr("Khám phá tiềm năng của điện mặt trời nổi tại Việt Nam và những lợi ích to lớn của công nghệ này."),
				Category:  "Điện mặt trời",
				Published: true,
			},
			{
				Title:     "Công nghệ lưu trữ năng lượng: Chìa khóa cho tương lai",
				Slug:      "cong-nghe-luu-tru-nang-luong",
				Content:   "Những tiến bộ mới nhất trong công nghệ lưu trữ năng lượng và tác động của chúng đến ngành điện...",
				Excerpt:   strptr("Những tiến bộ mới nhất trong công nghệ lưu trữ năng lượng và tác động của chúng đến ngành điện."),
				Category:  "Công nghệ",
				Published: true,
			},
		})
	}

	db.Model(&models.Partner{}).Count(&count)
	if count == 0 {
		db.Create(&[]models.Partner{
			{
				Name:        "Siemens Energy",
				Description: strptr("Tập đoàn công nghệ năng lượng hàng đầu thế giới, chuyên về điện gió và hệ thống lưới điện thông minh."),
				Website:     strptr("https://siemens-energy.com"),
				Category:    strptr("Công nghệ"),
				Country:     strptr("Đức"),
				Partnership: strptr("Đối tác chiến lược"),
				Projects:    25,
				Established: strptr("2020"),
				Status:      models.PartnerStatusActive,
				Priority:    1,
			},
			{
				Name:        "First Solar",
				Description: strptr("Nhà sản xuất tấm pin mặt trời hàng đầu với công nghệ thin-film tiên tiến và hiệu suất cao."),
				Website:     strptr("https://firstsolar.com"),
				Category:    strptr("Điện mặt trời"),
				Country:     strptr("Mỹ"),
				Partnership: strptr("Nhà cung cấp"),
				Projects:    40,
				Established: strptr("2018"),
				Status:      models.PartnerStatusActive,
				Priority:    2,
			},
			{
				Name:        "Vestas",
				Description: strptr("Nhà sản xuất turbine gió hàng đầu thế giới với hơn 40 năm kinh nghiệm trong lĩnh vực điện gió."),
				Website:     strptr("https://vestas.com"),
				Category:    strptr("Điện gió"),
				Country:     strptr("Đan Mạch"),
				Partnership: strptr("Đối tác kỹ thuật"),
				Projects:    30,
				Established: strptr("2019"),
				Status:      models.PartnerStatusActive,
				Priority:    3,
			},
			{
				Name:        "Tesla Energy",
				Description: strptr("Chuyên về hệ thống lưu trữ năng lượng và giải pháp năng lượng tích hợp cho hộ gia đình và doanh nghiệp."),
				Website:     strptr("https://tesla.com/energy"),
				Category:    strptr("Lưu trữ năng lượng"),
				Country:     strptr("Mỹ"),
				Partnership: strptr("Đối tác công nghệ"),
				Projects:    15,
				Established: strptr("2021"),
				Status:      models.PartnerStatusActive,
				Priority:    4,
			},
		})
	}

	db.Model(&models.Project{}).Count(&count)
	if count == 0 {
		db.Create(&[]models.Project{
			{
				Title:       "Nhà máy điện mặt trời ABC",
				Description: "Dự án điện mặt trời quy mô lớn, cung cấp điện năng sạch cho hàng nghìn hộ dân.",
				Category:    "solar",
				Capacity:    strptr("50MW"),
				Location:    strptr("Ninh Thuận"),
				Status:      models.ProjectStatusCompleted,
				Priority:    1,
			},
			{
				Title:       "Hệ thống điện gió DEF",
				Description: "Dự án điện gió ngoài khơi đầu tiên tại Việt Nam, mở ra tiềm năng to lớn của năng lượng gió.",
				Category:    "wind",
				Capacity:    strptr("100MW"),
				Location:    strptr("Bạc Liêu"),
				Status:      models.ProjectStatusCompleted,
				Priority:    2,
			},
			{
				Title:       "Hệ thống hybrid GHI",
				Description: "Kết hợp điện mặt trời và điện gió với hệ thống lưu trữ năng lượng tiên tiến.",
				Category:    "hybrid",
				Capacity:    strptr("25MW"),
				Location:    strptr("Đắk Lắk"),
				Status:      models.ProjectStatusInProgress,
				Priority:    3,
			},
		})
	}

	db.Model(&models.Setting{}).Count(&count)
	if count == 0 {
		db.Create(&[]models.Setting{
			{Key: "company_name", Value: "GreenTech Solutions", Type: models.SettingTypeString},
			{Key: "company_email", Value: "info@greentech.com", Type: models.SettingTypeString},
			{Key: "company_phone", Value: "+84 123 456 789", Type: models.SettingTypeString},
		})
	}
}
